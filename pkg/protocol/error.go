package protocol

// ErrorFrame tells the client a request failed. Code is the server's
// error code (for example "D041"). A fatal error ends the connection and
// the client reloads the page.
type ErrorFrame struct {
	Code    string
	Message string
	Fatal   bool
}

// NewError creates a non-fatal ErrorFrame.
func NewError(code, message string) *ErrorFrame {
	return &ErrorFrame{Code: code, Message: message}
}

// NewFatalError creates a fatal ErrorFrame.
func NewFatalError(code, message string) *ErrorFrame {
	return &ErrorFrame{Code: code, Message: message, Fatal: true}
}

// FrameType implements Message.
func (*ErrorFrame) FrameType() FrameType { return FrameError }

func (f *ErrorFrame) encode(e *Encoder) {
	e.WriteString(f.Code)
	e.WriteString(f.Message)
	e.WriteBool(f.Fatal)
}

func decodeError(d *Decoder) (*ErrorFrame, error) {
	var f ErrorFrame
	var err error
	if f.Code, err = d.ReadString(); err != nil {
		return nil, err
	}
	if f.Message, err = d.ReadString(); err != nil {
		return nil, err
	}
	if f.Fatal, err = d.ReadBool(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Error implements the error interface.
func (f *ErrorFrame) Error() string {
	if f.Fatal {
		return "fatal: " + f.Code + ": " + f.Message
	}
	return f.Code + ": " + f.Message
}
