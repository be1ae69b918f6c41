package bot

import "strconv"

// User-facing texts. Kept in one place so flows and tests agree.
const (
	msgWelcome = "Welcome! Send me images and I'll convert them to PDF.\n" +
		"Send /done when you're finished sending images."
	msgChooseStyle   = "Choose image style:"
	msgChooseQuality = "Select PDF quality:"
	msgGenerating    = "Generating your PDF..."
	msgCancelled     = "Operation cancelled."
	msgNoImages      = "No images yet. Send at least one image before /done."
	msgKeepSending   = "Send more images, or /done when you're finished."
	msgUseButtons    = "Please use the buttons above to continue."
	msgNoSession     = "Send /start to begin a new conversion."
	msgStartFail     = "Could not start a conversion, please try again."
	msgBadOption     = "That option is not available."
	msgDownloadFail  = "Could not download that image, please send it again."
	msgHelp          = "Send /start, then upload images one by one.\n" +
		"Send /done to pick a style and quality; I'll reply with a PDF.\n" +
		"Send /cancel at any point to abort."
)

func msgImageCount(n int) string {
	return "Image received! Total: " + strconv.Itoa(n)
}

func msgRenderError(userMsg string) string {
	return "Error generating PDF: " + userMsg
}
