package notification

import (
	"errors"
	"regexp"
)

// Notification categories
const (
	CategoryAccounts  = "accounts"
	CategoryTransfers = "transfers"
)

var ErrInvalidTopic = errors.New("user id is not a valid topic name")

// FCM topic names allow letters, digits and -_.~%
var topicRe = regexp.MustCompile(`^[a-zA-Z0-9\-_.~%]+$`)

// Notification is one push message for one user
type Notification struct {
	UserID   string
	Category string
	Title    string
	Body     string
	Data     map[string]string
}

// TopicForUser returns the topic every device of a user subscribes to.
func TopicForUser(userID string) (string, error) {
	if userID == "" || !topicRe.MatchString(userID) {
		return "", ErrInvalidTopic
	}
	return "user-" + userID, nil
}
