package cards

// School display fallbacks.
const (
	DefaultSchoolName    = "School Name"
	DefaultSchoolAddress = "School Address City, State - Zip"
	LogoPlaceholder      = "Logo"
)

// School is the identity printed in every card header.
type School struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	LogoURL string `json:"logo_url,omitempty"` // data: URL or remote URL; empty renders a placeholder
}

// DisplayName returns the upper-cased school name, or the fallback.
func (s School) DisplayName() string {
	return upper.String(fallback(s.Name, DefaultSchoolName))
}

// DisplayAddress returns the school address, or the fallback.
func (s School) DisplayAddress() string {
	return fallback(s.Address, DefaultSchoolAddress)
}

// HasLogo reports whether a logo image should be rendered.
func (s School) HasLogo() bool {
	return s.LogoURL != ""
}
