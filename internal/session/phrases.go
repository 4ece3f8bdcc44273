package session

// Spoken notices emitted by the listening loop.
const (
	phraseOnline         = "Nova online."
	phraseAcknowledge    = "Yes?"
	phraseTimedOut       = "Timed out."
	phraseUnintelligible = "Could not understand."
	phraseFailed         = "Something went wrong."
)
