package consts

const (
	// Audio formats accepted for transcription upload
	FormatWAV  = "wav"
	FormatMP3  = "mp3"
	FormatFLAC = "flac"
	FormatM4A  = "m4a"
	FormatOGG  = "ogg"
	FormatMP4  = "mp4"
	FormatWEBM = "webm"

	// Upload limits
	MaxAudioSize = 100 * 1024 * 1024 // 100MB

	// MaxTranscriptSize bounds raw transcript text accepted on replace/append
	MaxTranscriptSize = 4 * 1024 * 1024 // 4MB
)
