package domain

import "strings"

// UserNamePrefix is the fixed prefix of user resource names
const UserNamePrefix = "users/"

// FormatUserName builds the resource name for a username
func FormatUserName(username string) string {
	return UserNamePrefix + username
}

// ExtractUsername strips the user resource name prefix. A value without the
// prefix is returned unchanged so legacy bare usernames keep working.
func ExtractUsername(name string) string {
	if !strings.HasPrefix(name, UserNamePrefix) {
		return name
	}
	return strings.TrimPrefix(name, UserNamePrefix)
}
