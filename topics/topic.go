package topics

// Topic names a pub/sub channel, e.g. "transcripts.<id>" for live
// transcription streams.
type Topic struct {
	prefix string
	name   string
}

func New(prefix, name string) Topic {
	return Topic{
		prefix: prefix,
		name:   name,
	}
}

func (t Topic) FullName() string {
	if t.prefix == "" {
		return t.name
	}
	return t.prefix + "." + t.name
}

func (t Topic) Name() string {
	return t.name
}

// Transcript is the stream topic for one transcript's live deltas.
func Transcript(id string) Topic {
	return New("transcripts", id)
}
