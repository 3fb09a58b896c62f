package bot

import "fmt"

const (
	msgGreeting       = "👋 Hello!\nSend me a YouTube link and I'll show you the download options."
	msgInvalidLink    = "Please send a valid YouTube link."
	msgSelectFormat   = "📥 Select format:"
	msgNoLink         = "❌ Error: YouTube link not found. Send a link first."
	msgProcessing     = "⏳ Processing... please wait."
	msgNoOutput       = "⚠️ The file could not be downloaded."
	msgAudioCaption   = "🎵 Your MP3 is ready!"
	msgUnknownCommand = "Unknown command."
)

func joinPromptStart(channel string) string {
	return fmt.Sprintf("🔒 Please join our channel %s first!\nThen press /start.", channel)
}

func joinPromptLink(channel string) string {
	return fmt.Sprintf("❌ Join %s first!", channel)
}

func tooLarge(size int64) string {
	return fmt.Sprintf("⚠️ The file is %dMB, too large to send on Telegram. Try a lower quality.", size/(1024*1024))
}

func videoCaption(height int) string {
	return fmt.Sprintf("🎬 Your %dp video is ready!", height)
}

func errorReply(err error) string {
	return fmt.Sprintf("❌ Error: %v", err)
}
