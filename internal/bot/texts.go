package bot

const (
	textAskCode           = "🔒 Send your access code to continue."
	textCodeInvalid       = "❌ Invalid code. Try again."
	textCodeExpired       = "⌛ This code has expired. Ask for a new one."
	textAccessGranted     = "✅ Access granted, welcome!"
	textBanned            = "⛔ You are not allowed to use this bot."
	textDefaultWelcome    = "👋 Welcome! Open the menu to browse the catalog."
	textConflict          = "⚠️ This name is already taken. Send another one."
	textInvalid           = "⚠️ This value is not valid. Try again."
	textNotFound          = "❌ This item no longer exists."
	textForbidden         = "⛔ You are not allowed to do this."
	textSoldOutEdit       = "❌ This category is sold out. Add a product to open it again."
	textBroadcastDisabled = "📢 Broadcasts are not configured."
	textInternalError     = "⚠️ Something went wrong. Back to the menu."
	textNoCategories      = "📋 The catalog is empty for now."
	textChooseCategory    = "📋 Choose a category:"
	textNoProducts        = "No products available"
	textNoOrderButton     = "🛒 Ordering is not configured yet."
	textCancelled         = "🔙 Cancelled."
	textDone              = "✅ Done."
)
