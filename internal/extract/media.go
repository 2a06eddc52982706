package extract

// ResumeExtensions lists the document types Text understands for resumes.
var ResumeExtensions = []string{".pdf", ".docx", ".txt"}

var audioTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".webm": "audio/webm",
}

// AudioExtensions lists the interview recording types accepted for transcription.
var AudioExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".webm"}

// IsResume reports whether filename has a supported resume extension.
func IsResume(filename string) bool {
	e := ext(filename)
	for _, candidate := range ResumeExtensions {
		if e == candidate {
			return true
		}
	}
	return false
}

// IsAudio reports whether filename has a supported audio extension.
func IsAudio(filename string) bool {
	_, ok := audioTypes[ext(filename)]
	return ok
}

// AudioMIMEType returns the MIME type sent along with a recording.
func AudioMIMEType(filename string) (string, bool) {
	mime, ok := audioTypes[ext(filename)]
	return mime, ok
}
