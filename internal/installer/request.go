package installer

// Request describes one installation. It is built once by the caller and
// handed to the worker unchanged.
type Request interface {
	isRequest()
}

// SelfInstall installs the voidbox binary and directory layout.
type SelfInstall struct{}

// AppInstall installs one app container from raw manifest text. Name is
// the install slot key; DisplayName is what the user sees. The text is
// parsed by the worker, not the caller, so a malformed manifest still
// travels the normal failure path.
type AppInstall struct {
	Name            string
	DisplayName     string
	ManifestContent string
	Force           bool
}

func (SelfInstall) isRequest() {}
func (AppInstall) isRequest()  {}
