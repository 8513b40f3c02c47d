package telegram

// UI texts in English
const (
	startText = "👋 Hi! I greet you in the morning, keep your notes and remind you about things.\n\n" +
		"Commands:\n" +
		"/timezone — set your timezone (do this first)\n" +
		"/remind — schedule a reminder\n" +
		"/note — leave a note for future you\n" +
		"/waifu — anime girls help us all stay productive"

	unknownCommandText = "I don't know that command. Try /start."

	askTZText     = "Enter your timezone (e.g. Europe/Tallinn):"
	invalidTZText = "Invalid timezone. Example: America/New_York"
	tzSuccessFmt  = "Success! If everything is right, you should see %s on your clock right now."
	needTZText    = "Please run /timezone first."

	askRemindTimeText = "When should I remind you? This field is very smart, you can put in almost anything."
	askRemindTextText = "What should the reminder say?"
	cantParseTimeText = "Couldn't find that time. Can you be a bit more clear?"
	remindOKFmt       = "✅ I will remind you on %s:\n%s"

	askNoteDateText   = "Which day is the note for? You can put in almost anything."
	askNoteTextFmt    = "Send me the note for %s in a single message."
	currentNoteFmt    = "\n\nCurrent note:\n%s"
	noteOKFmt         = "✅ Alright! I will show you this note on %s:\n%s"
	noteConfirmLayout = "January _2, 2006"

	confirmLayout      = "Monday, January _2 at 15:04"
	morningClockLayout = "Monday, January _2, 15:04"

	morningFmt = "🌄 Good morning, %s!\n" +
		"⏰ It's currently %s.\n\n" +
		"🎈 Fun stuff today:\n%s\n\n" +
		"🗒️ Your note for today:\n%s"
	nightFmt = "🌌 Sleep well, %s."

	noHolidaysText = "- nothing, apparently"
	noNoteText     = "(no note)"

	imageFailedText = "Couldn't fetch an image right now. Try again later."

	saveFailedText = "Couldn't save that. Please try again later."
)
