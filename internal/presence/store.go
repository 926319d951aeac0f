package presence

import (
	"sync"
	"time"
)

// Store holds the draft, the cached images and the last rendered preview text.
// The zero value is ready to use.
type Store struct {
	mu           sync.RWMutex
	draft        Draft
	images       CachedImages
	text         RenderedText
	sessionStart time.Time

	// Now is used for the elapsed-time session start. Nil means time.Now.
	Now func() time.Time
}

// Snapshot is a consistent copy of the store contents.
type Snapshot struct {
	Draft        Draft
	Images       CachedImages
	Text         RenderedText
	SessionStart time.Time
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Snapshot returns a copy of the current contents.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Draft:        s.draft,
		Images:       s.images,
		Text:         s.text,
		SessionStart: s.sessionStart,
	}
}

// Draft returns a copy of the current draft.
func (s *Store) Draft() Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// Edit applies fn to the draft. Turning the timestamp flag on restarts the
// elapsed-time session.
func (s *Store) Edit(fn func(*Draft)) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.draft.WithTimestamp
	fn(&s.draft)
	if s.draft.WithTimestamp && !before {
		s.sessionStart = s.now()
	}
	return s.draft
}

// Restore replaces everything with persisted contents and restarts the session.
func (s *Store) Restore(d Draft, images CachedImages, text RenderedText) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d
	s.images = images
	s.text = text
	s.sessionStart = s.now()
}

// SetUserProfile records a synced user avatar and display text.
func (s *Store) SetUserProfile(avatar Option[string], name, handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images.UserAvatar = avatar
	if name != "" {
		s.text.Name = name
	}
	if handle != "" {
		s.text.Handle = handle
	}
}

// SetAppMeta records a synced application icon and name.
func (s *Store) SetAppMeta(icon Option[string], name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images.AppIcon = icon
	if name != "" {
		s.text.AppName = name
	}
}

// Render calls fn with the current contents and stores the text it returns.
// The store stays locked while fn runs, so a concurrent metadata merge cannot
// be overwritten by text derived from an older snapshot.
func (s *Store) Render(fn func(Snapshot) RenderedText) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = fn(Snapshot{
		Draft:        s.draft,
		Images:       s.images,
		Text:         s.text,
		SessionStart: s.sessionStart,
	})
}
