package domain

// DefaultServices are offered when no override is configured.
var DefaultServices = []string{
	"Web Development",
	"UI/UX Design",
	"Logo Design",
}

// ContactInfo is one direct contact channel on the contact page.
type ContactInfo struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Profile is the site owner's public contact details.
type Profile struct {
	Phone   string
	Email   string
	Address string
}

// ContactInfo lists the non-empty channels in display order.
func (p Profile) ContactInfo() []ContactInfo {
	var items []ContactInfo
	if p.Phone != "" {
		items = append(items, ContactInfo{Kind: "phone", Title: "Phone", Description: p.Phone})
	}
	if p.Email != "" {
		items = append(items, ContactInfo{Kind: "email", Title: "Email", Description: p.Email})
	}
	if p.Address != "" {
		items = append(items, ContactInfo{Kind: "address", Title: "Address", Description: p.Address})
	}
	return items
}
