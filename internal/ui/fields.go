package ui

import "github.com/five82/presence/internal/presence"

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldImage
	fieldCheck
)

// field binds one form row to a draft member.
type field struct {
	label       string
	placeholder string
	kind        fieldKind
	limit       int
	get         func(presence.Draft) string
	set         func(*presence.Draft, string)
}

// formFields lists the form rows in focus order. Image fields accept the
// file picker; the checkbox has no text input.
var formFields = []field{
	{
		label: "Client ID", placeholder: "application id", limit: 32,
		get: func(d presence.Draft) string { return d.ClientID },
		set: func(d *presence.Draft, v string) { d.ClientID = v },
	},
	{
		label: "Details", placeholder: "what you are doing", limit: 128,
		get: func(d presence.Draft) string { return d.Details },
		set: func(d *presence.Draft, v string) { d.Details = v },
	},
	{
		label: "State", placeholder: "more context", limit: 128,
		get: func(d presence.Draft) string { return d.State },
		set: func(d *presence.Draft, v string) { d.State = v },
	},
	{
		label: "Large image", placeholder: "asset key or https url", limit: 256,
		get: func(d presence.Draft) string { return d.LargeImage },
		set: func(d *presence.Draft, v string) { d.LargeImage = v },
	},
	{
		label: "Large text", placeholder: "hover text", limit: 128,
		get: func(d presence.Draft) string { return d.LargeText },
		set: func(d *presence.Draft, v string) { d.LargeText = v },
	},
	{
		label: "Small image", placeholder: "asset key or https url", limit: 256,
		get: func(d presence.Draft) string { return d.SmallImage },
		set: func(d *presence.Draft, v string) { d.SmallImage = v },
	},
	{
		label: "Small text", placeholder: "hover text", limit: 128,
		get: func(d presence.Draft) string { return d.SmallText },
		set: func(d *presence.Draft, v string) { d.SmallText = v },
	},
	buttonField(0, "label"),
	buttonField(0, "url"),
	buttonField(1, "label"),
	buttonField(1, "url"),
	{
		label: "Elapsed time", kind: fieldCheck,
	},
	{
		label: "Name", placeholder: "preview only", limit: 64,
		get: func(d presence.Draft) string { return d.Overrides.Name },
		set: func(d *presence.Draft, v string) { d.Overrides.Name = v },
	},
	{
		label: "Handle", placeholder: "preview only", limit: 64,
		get: func(d presence.Draft) string { return d.Overrides.Handle },
		set: func(d *presence.Draft, v string) { d.Overrides.Handle = v },
	},
	{
		label: "Status", placeholder: "preview only", limit: 128,
		get: func(d presence.Draft) string { return d.Overrides.Status },
		set: func(d *presence.Draft, v string) { d.Overrides.Status = v },
	},
	{
		label: "Avatar", placeholder: "path or url (ctrl+o)", kind: fieldImage, limit: 1024,
		get: func(d presence.Draft) string { return d.Overrides.AvatarSrc },
		set: func(d *presence.Draft, v string) { d.Overrides.AvatarSrc = v },
	},
	{
		label: "Banner", placeholder: "path or url (ctrl+o)", kind: fieldImage, limit: 1024,
		get: func(d presence.Draft) string { return d.Overrides.BannerSrc },
		set: func(d *presence.Draft, v string) { d.Overrides.BannerSrc = v },
	},
	{
		label: "Card", placeholder: "path or url (ctrl+o)", kind: fieldImage, limit: 1024,
		get: func(d presence.Draft) string { return d.Overrides.CardSrc },
		set: func(d *presence.Draft, v string) { d.Overrides.CardSrc = v },
	},
}

// overridesStart is the index of the first preview-only field.
const overridesStart = 12

func buttonField(i int, part string) field {
	n := string(rune('1' + i))
	if part == "url" {
		return field{
			label: "Button " + n + " url", placeholder: "https://", limit: 512,
			get: func(d presence.Draft) string { return d.Buttons[i].URL },
			set: func(d *presence.Draft, v string) { d.Buttons[i].URL = v },
		}
	}
	return field{
		label: "Button " + n + " label", placeholder: "label", limit: 32,
		get: func(d presence.Draft) string { return d.Buttons[i].Label },
		set: func(d *presence.Draft, v string) { d.Buttons[i].Label = v },
	}
}
