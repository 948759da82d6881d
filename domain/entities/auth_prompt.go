package entities

// AuthPrompt represents a prompt-response pair during login
type AuthPrompt struct {
	WaitFor string // prompt to wait for
	SendCmd string // command to send (empty means just wait)
	Secret  bool   // SendCmd carries a credential and must not be traced
}

// LoginSequence describes how a platform is brought to a usable CLI prompt.
// Auth is only replayed on transports without their own authentication (telnet).
// Enable runs when elevation is requested and the prompt is unprivileged.
type LoginSequence struct {
	Auth   []AuthPrompt
	Enable []AuthPrompt
	Setup  []string
}
