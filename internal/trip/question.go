package trip

// SmartQuestion is a generated follow-up question answered yes/no by the
// traveler. The received sequence is consumed front to back exactly once
// by the swipe interpreter; questions are immutable once received.
type SmartQuestion struct {
	ID          string `json:"id"`
	Emoji       string `json:"emoji"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
