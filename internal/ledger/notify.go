package ledger

import "github.com/gen2brain/beeep"

// Notifier delivers a desktop alert.
type Notifier interface {
	Alert(title, message string) error
}

// DesktopNotifier sends alerts through the OS notification center.
type DesktopNotifier struct{}

func NewDesktopNotifier(appName string) DesktopNotifier {
	beeep.AppName = appName
	return DesktopNotifier{}
}

func (DesktopNotifier) Alert(title, message string) error {
	return beeep.Alert(title, message, "")
}
