package session

import "go.uber.org/zap"

// NoticeKind identifies a user-visible message.
type NoticeKind string

const (
	Saved            NoticeKind = "saved"
	SaveFailed       NoticeKind = "save_failed"
	Loaded           NoticeKind = "loaded"
	NoSave           NoticeKind = "no_save"
	LoadFailed       NoticeKind = "load_failed"
	PresetsDefaulted NoticeKind = "presets_defaulted"
)

// Notice is something the UI shell should show the user. Persistence
// problems are reported this way and never returned as fatal.
type Notice struct {
	Kind    NoticeKind
	Message string
	Err     error
}

func (n Notice) String() string {
	if n.Err != nil {
		return n.Message + ": " + n.Err.Error()
	}
	return n.Message
}

// Notifier receives notices.
type Notifier func(Notice)

func (s *Session) emit(n Notice) {
	if n.Err != nil {
		s.log.Warn(n.Message, zap.String("notice", string(n.Kind)), zap.Error(n.Err))
	} else {
		s.log.Info(n.Message, zap.String("notice", string(n.Kind)))
	}
	if s.notify != nil {
		s.notify(n)
	}
}
