package bot

// botToken prefixes a raw token the way the Discord API expects
func botToken(token string) string {
	return "Bot " + token
}
