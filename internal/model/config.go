package model

import (
	"regexp"
	"slices"
	"strings"
)

// Config is the persisted bot configuration document.
type Config struct {
	CodeRequired    bool           `json:"code_required"`
	AuthorizedUsers []int64        `json:"authorized_users"`
	BannedUsers     []int64        `json:"banned_users"`
	Groups          []Group        `json:"groups"`
	CustomButtons   []CustomButton `json:"custom_buttons"`
	WelcomeMessage  string         `json:"welcome_message,omitempty"`
	BannerImage     string         `json:"banner_image,omitempty"`
	OrderButton     *OrderButton   `json:"order_button,omitempty"`
	Contact         *Contact       `json:"contact,omitempty"`
}

// NewConfig returns the default configuration: codes required, nothing else set.
func NewConfig() Config {
	return Config{
		CodeRequired:    true,
		AuthorizedUsers: []int64{},
		BannedUsers:     []int64{},
		Groups:          []Group{},
		CustomButtons:   []CustomButton{},
	}
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	out := c
	out.AuthorizedUsers = slices.Clone(c.AuthorizedUsers)
	out.BannedUsers = slices.Clone(c.BannedUsers)
	out.CustomButtons = slices.Clone(c.CustomButtons)
	out.Groups = make([]Group, len(c.Groups))
	for i, g := range c.Groups {
		out.Groups[i] = Group{Name: g.Name, Members: slices.Clone(g.Members)}
	}
	if c.OrderButton != nil {
		ob := *c.OrderButton
		out.OrderButton = &ob
	}
	if c.Contact != nil {
		ct := *c.Contact
		out.Contact = &ct
	}
	return out
}

// IsAuthorized reports whether userID redeemed a code before.
func (c Config) IsAuthorized(userID int64) bool {
	return slices.Contains(c.AuthorizedUsers, userID)
}

// IsBanned reports whether userID is banned.
func (c Config) IsBanned(userID int64) bool {
	return slices.Contains(c.BannedUsers, userID)
}

// Group returns the index of the named group or -1.
func (c Config) Group(name string) int {
	return slices.IndexFunc(c.Groups, func(g Group) bool { return g.Name == name })
}

// Button returns the index of the custom button with the given id or -1.
func (c Config) Button(id string) int {
	return slices.IndexFunc(c.CustomButtons, func(b CustomButton) bool { return b.ID == id })
}

// AddID inserts id into a sorted id set.
func AddID(ids []int64, id int64) []int64 {
	i, found := slices.BinarySearch(ids, id)
	if found {
		return ids
	}
	return slices.Insert(ids, i, id)
}

// RemoveID deletes id from an id set.
func RemoveID(ids []int64, id int64) []int64 {
	return slices.DeleteFunc(ids, func(v int64) bool { return v == id })
}

// ButtonKind is the behaviour of a custom home button.
type ButtonKind string

const (
	ButtonURL  ButtonKind = "url"
	ButtonText ButtonKind = "text"
)

// CustomButton is an admin-defined home screen button.
type CustomButton struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Kind  ButtonKind `json:"type"`
	Value string     `json:"value"`
}

// IsURL reports whether value is an http(s) link.
func IsURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

// ButtonKindOf classifies a custom button value.
func ButtonKindOf(value string) ButtonKind {
	if IsURL(value) {
		return ButtonURL
	}
	return ButtonText
}

// OrderButton configures the order button on product cards.
type OrderButton struct {
	Kind  ButtonKind `json:"type"`
	Value string     `json:"value"`
}

// ParseOrderButton accepts a URL, a Telegram handle or free text.
func ParseOrderButton(raw string) (OrderButton, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return OrderButton{}, ErrInvalidValue
	}
	if IsURL(raw) {
		return OrderButton{Kind: ButtonURL, Value: raw}, nil
	}
	handle := strings.TrimPrefix(raw, "@")
	if strings.HasPrefix(raw, "@") || !strings.ContainsAny(raw, " /?=&\n") {
		return OrderButton{Kind: ButtonURL, Value: "https://t.me/" + handle}, nil
	}
	return OrderButton{Kind: ButtonText, Value: raw}, nil
}

// ContactKind is the kind of contact target.
type ContactKind string

const (
	ContactURL      ContactKind = "url"
	ContactUsername ContactKind = "username"
)

// Contact configures the contact button.
type Contact struct {
	Kind  ContactKind `json:"type"`
	Value string      `json:"value"`
}

// Link returns the URL opened by the contact button.
func (c Contact) Link() string {
	if c.Kind == ContactUsername {
		return "https://t.me/" + c.Value
	}
	return c.Value
}

var usernameRx = regexp.MustCompile(`^[a-zA-Z0-9_]{5,32}$`)

// ParseContact accepts a URL or a Telegram username with an optional @.
func ParseContact(raw string) (Contact, error) {
	raw = strings.TrimSpace(raw)
	if IsURL(raw) {
		return Contact{Kind: ContactURL, Value: raw}, nil
	}
	name := strings.TrimPrefix(raw, "@")
	if !usernameRx.MatchString(name) {
		return Contact{}, ErrInvalidValue
	}
	return Contact{Kind: ContactUsername, Value: name}, nil
}
