package presence

import (
	"encoding/json"
	"testing"
)

func TestOption_JSONNull(t *testing.T) {
	var images CachedImages
	if err := json.Unmarshal([]byte(`{"user_avatar":null,"app_icon":"https://cdn/icon.png"}`), &images); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if images.UserAvatar.IsSome() {
		t.Fatalf("UserAvatar = %v, want none", images.UserAvatar)
	}
	if got := images.AppIcon.OrElse(""); got != "https://cdn/icon.png" {
		t.Fatalf("AppIcon = %q, want icon url", got)
	}

	raw, err := json.Marshal(images)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `{"user_avatar":null,"app_icon":"https://cdn/icon.png"}` {
		t.Fatalf("Marshal = %s", raw)
	}
}

func TestOption_Or(t *testing.T) {
	got := None[string]().Or(Some("b")).Or(Some("c"))
	if v, _ := got.Get(); v != "b" {
		t.Fatalf("Or chain = %q, want b", v)
	}
}

func TestText(t *testing.T) {
	if Text("   ").IsSome() {
		t.Fatal("Text(blank) should be none")
	}
	if v, ok := Text(" a ").Get(); !ok || v != "a" {
		t.Fatalf("Text(\" a \") = %q,%v want a,true", v, ok)
	}
}
