package telegram

const (
	commandStart = "/start"
	commandHelp  = "/help"

	msgWelcome = "👋 Hi! I'm your personal assistant.\n\n" +
		"Just write to me in plain words and I will:\n" +
		"• 📝 keep notes and tasks\n" +
		"• 📅 schedule events and find free time\n" +
		"• ⏰ remind you and send a morning digest\n" +
		"• 💸 track expenses, check the weather and convert currencies\n\n" +
		"_Example: \"Dentist tomorrow at 15:00, remind me an hour before\"_"

	msgHelp = "*How to use me*\n\n" +
		"`Buy milk` saves a note\n" +
		"`Finish the report by Friday, urgent` creates a task\n" +
		"`Team sync on Monday 10:00` schedules an event\n" +
		"`Remind me to water plants every week` sets a reminder\n" +
		"`Spent 450 on lunch` records an expense\n" +
		"`Am I free tomorrow afternoon?` checks your schedule\n" +
		"`Show my tasks`, `weather in Moscow`, `100 USD to EUR`"

	msgVoiceUnsupported = "Voice messages are not supported yet. Please send text."
	msgRateLimited      = "You're sending messages too fast. Please wait a moment."
)
