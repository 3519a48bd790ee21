package menu

// Screen ids referenced outside this package.
const (
	ScreenMain           = "main"
	ScreenHelp           = "help"
	ScreenSettings       = "settings"
	ScreenExamples       = "examples"
	ScreenLegal          = "legal"
	ScreenEmergency      = "emergency"
	ScreenUsage          = "usage"
	ScreenStats          = "stats"
	ScreenHistoryCleared = "history-cleared"
	ScreenExportDone     = "export-done"
	ScreenRestarted      = "restarted"
	ScreenQuickAccess    = "quick-access"
	ScreenKeyboardHidden = "keyboard-hidden"
)

// Terminal action ids. These never render directly; the router executes
// their side effect and renders a confirmation screen instead.
const (
	ActionClearHistory  = "clear-history"
	ActionConfirmExport = "confirm-export"
	ActionRestart       = "restart"
	ActionUsageStats    = "usage-stats"
)

// Actions returns every registered terminal action id.
func Actions() []string {
	return []string{ActionClearHistory, ActionConfirmExport, ActionRestart, ActionUsageStats}
}

func backRow(target string) []Transition {
	return []Transition{{Label: "🔙 Back", Target: target}}
}

// StatsBodyTemplate is the stats screen body; the router fills in the
// per-user counters before sending.
const StatsBodyTemplate = "📊 <b>Usage Statistics</b>\n\n" +
	"❓ <b>Questions asked:</b> %d\n" +
	"📚 <b>Documents analyzed:</b> %d\n" +
	"🎤 <b>Voice queries:</b> %d\n\n" +
	"Counters reset when you clear your history or /restart."

// Screens returns the full static menu content. The set is validated by
// NewGraph at startup; every Target below must stay a known screen or action.
func Screens() []Screen {
	return []Screen{
		{
			ID: ScreenMain,
			Body: "⚖️ <b>Welcome to your Legal & Cyber Security Assistant!</b>\n\n" +
				"🚀 <b>Built for SMEs & Startups</b>\n" +
				"I'm your AI companion for navigating legal compliance, cybersecurity, " +
				"and data privacy. Ask me anything directly, or use the menu below for " +
				"structured guidance.\n\n" +
				"🔍 <b>What I can help with:</b>\n" +
				"• <b>Legal Compliance</b> - Business setup, contracts, regulations\n" +
				"• <b>Cybersecurity</b> - Threat protection, policies, incident response\n" +
				"• <b>Privacy & Data</b> - GDPR, PDPA, privacy policies\n\n" +
				"💡 <i>Try: 'Do I need a privacy policy?' or send a document or a voice message.</i>",
			Rows: [][]Transition{
				{{Label: "❓ Help", Target: ScreenHelp}, {Label: "⚙️ Settings", Target: ScreenSettings}},
				{{Label: "📚 About RAG", Target: "about-rag"}, {Label: "💡 Examples", Target: ScreenExamples}},
				{{Label: "⚖️ Legal Topics", Target: ScreenLegal}, {Label: "🚨 Emergency", Target: ScreenEmergency}},
				{{Label: "📖 Usage Guide", Target: ScreenUsage}, {Label: "📊 Usage Stats", Target: ActionUsageStats}},
				{{Label: "🔄 Restart", Target: ActionRestart}},
			},
		},
		{
			ID: ScreenUsage,
			Body: "🤖 <b>How to ask</b>\n\n" +
				"📝 <b>Text</b> - type a question and send it\n" +
				"📂 <b>Files</b> - upload PDF, DOCX or TXT, with an optional question as the caption\n" +
				"🎤 <b>Voice</b> - send a voice message or an audio file\n\n" +
				"<i>💡 Tip: you can always just type your question directly.</i>",
			Rows: [][]Transition{
				{{Label: "📝 Text Guide", Target: "text-usage"}, {Label: "📂 File Guide", Target: "file-usage"}},
				{{Label: "🎤 Voice Guide", Target: "voice-usage"}},
				backRow(ScreenMain),
			},
		},
		{
			ID:       "text-usage",
			PhotoURL: "https://pivotaimm.vercel.app/ask.jpg",
			Body: "📝 <b>Asking with text</b>\n\n" +
				"The simplest way to use the bot:\n\n" +
				"• Type your question and send it\n" +
				"• Long, detailed questions are fine\n" +
				"• Follow-up questions work too\n\n" +
				"<b>Examples:</b>\n" +
				"• \"Do I need a data processing agreement?\"\n" +
				"• \"Explain GDPR consent requirements\"\n\n" +
				"💡 <i>Try one right now!</i>",
			Rows: [][]Transition{backRow(ScreenUsage)},
		},
		{
			ID:       "file-usage",
			PhotoURL: "https://pivotaimm.vercel.app/chat_with_file.JPG",
			Body: "📂 <b>Asking with files</b>\n\n" +
				"Upload a document and ask about it:\n\n" +
				"📄 <b>PDF</b> - contracts, policies, reports\n" +
				"📝 <b>DOCX</b> - Word documents\n" +
				"📋 <b>TXT</b> - plain text files\n\n" +
				"<b>How:</b>\n" +
				"1️⃣ Attach the file\n" +
				"2️⃣ Add your question as the caption (optional)\n" +
				"3️⃣ I read the document and answer\n\n" +
				"💡 <i>Without a caption I summarize what the document is about.</i>",
			Rows: [][]Transition{backRow(ScreenUsage)},
		},
		{
			ID:       "voice-usage",
			PhotoURL: "https://pivotaimm.vercel.app/talk_to_bot.jpg",
			Body: "🎤 <b>Asking with voice</b>\n\n" +
				"Speak your question instead of typing:\n\n" +
				"🎙️ <b>Voice message</b> - hold the microphone button and talk\n" +
				"🔊 <b>Audio file</b> - upload a recording\n\n" +
				"I transcribe the audio, answer the question, and show you both.\n\n" +
				"💡 <i>Send a voice message to try it!</i>",
			Rows: [][]Transition{backRow(ScreenUsage)},
		},
		{
			ID: ScreenHelp,
			Body: "❓ <b>Help Center</b>\n\n" +
				"Get help with using the bot:\n\n" +
				"• <b>Getting Started</b> - Basic usage guide\n" +
				"• <b>Chat Commands</b> - Available commands\n" +
				"• <b>Features</b> - What the bot can do\n" +
				"• <b>Troubleshooting</b> - Common issues",
			Rows: [][]Transition{
				{{Label: "🚀 Getting Started", Target: "help-getting-started"}, {Label: "💬 Commands", Target: "help-commands"}},
				{{Label: "📋 Features", Target: "help-features"}, {Label: "🔧 Troubleshooting", Target: "help-troubleshooting"}},
				backRow(ScreenMain),
			},
		},
		{
			ID: "help-getting-started",
			Body: "🚀 <b>Getting Started</b>\n\n" +
				"1. Simply type your question or message\n" +
				"2. The bot searches the knowledge base\n" +
				"3. You receive a comprehensive answer\n\n" +
				"<b>Tips:</b>\n" +
				"• Be specific in your questions\n" +
				"• You can ask follow-up questions\n" +
				"• Use /help for this menu anytime\n" +
				"• Try /settings to customize your experience",
			Rows: [][]Transition{backRow(ScreenHelp)},
		},
		{
			ID: "help-commands",
			Body: "💬 <b>Available Commands</b>\n\n" +
				"/start - Welcome message and main menu\n" +
				"/help - Show this help system\n" +
				"/menu - Show main navigation menu\n" +
				"/settings - Open settings menu\n" +
				"/restart - Reset conversation context\n" +
				"/keyboard - Show the quick-access keyboard\n" +
				"/hide - Hide the quick-access keyboard\n\n" +
				"<b>Quick Actions:</b>\n" +
				"• Just type any question to get started\n" +
				"• Use the menu buttons for navigation",
			Rows: [][]Transition{backRow(ScreenHelp)},
		},
		{
			ID: "help-features",
			Body: "📋 <b>Bot Features</b>\n\n" +
				"🔍 <b>Smart Search:</b> Advanced information retrieval\n" +
				"💬 <b>Natural Chat:</b> Conversational interface\n" +
				"📚 <b>Document Analysis:</b> Upload PDF, DOCX or TXT\n" +
				"🎤 <b>Voice Input:</b> Voice messages and audio files\n" +
				"⚙️ <b>Customizable:</b> Adjust settings to your needs\n" +
				"📊 <b>Statistics:</b> Track your usage",
			Rows: [][]Transition{backRow(ScreenHelp)},
		},
		{
			ID: "help-troubleshooting",
			Body: "🔧 <b>Troubleshooting</b>\n\n" +
				"<b>Bot not responding?</b>\n" +
				"• Check your internet connection\n" +
				"• Try /restart to reset\n\n" +
				"<b>Wrong answers?</b>\n" +
				"• Be more specific in your questions\n\n" +
				"<b>Technical issues?</b>\n" +
				"• Use /restart to clear any errors\n" +
				"• Contact support if problems persist",
			Rows: [][]Transition{backRow(ScreenHelp)},
		},
		{
			ID: "about-rag",
			Body: "📚 <b>About RAG (Retrieval-Augmented Generation)</b>\n\n" +
				"RAG is an AI technique that combines:\n\n" +
				"🔍 <b>Retrieval</b> - Finding relevant information from a knowledge base\n" +
				"🧠 <b>Generation</b> - Creating natural language responses\n\n" +
				"This allows the bot to:\n" +
				"• Access up-to-date information\n" +
				"• Provide accurate, contextual answers\n" +
				"• Reference specific documents or sources\n\n" +
				"Your queries are processed through this system to give you " +
				"the most relevant and accurate responses possible!",
			Rows: [][]Transition{backRow(ScreenMain)},
		},
		{
			ID: ScreenSettings,
			Body: "⚙️ <b>Settings</b>\n\n" +
				"Customize your bot experience:\n\n" +
				"• <b>Notifications</b> - Alert preferences\n" +
				"• <b>Language</b> - Interface language\n" +
				"• <b>Response Style</b> - How the bot responds\n" +
				"• <b>RAG Settings</b> - Search and retrieval options\n" +
				"• <b>Export Data</b> - Download your data\n" +
				"• <b>Clear History</b> - Reset conversation history",
			Rows: [][]Transition{
				{{Label: "🔔 Notifications", Target: "settings-notifications"}, {Label: "🌐 Language", Target: "settings-language"}},
				{{Label: "📝 Response Style", Target: "settings-response-style"}, {Label: "🎯 RAG Settings", Target: "settings-rag"}},
				{{Label: "💾 Export Data", Target: "settings-export"}, {Label: "🗑️ Clear History", Target: "settings-clear"}},
				backRow(ScreenMain),
			},
		},
		{
			ID: "settings-notifications",
			Body: "🔔 <b>Notification Settings</b>\n\n" +
				"Feature coming soon! You'll be able to customize when and how " +
				"you receive notifications.",
			Rows: [][]Transition{backRow(ScreenSettings)},
		},
		{
			ID: "settings-language",
			Body: "🌐 <b>Language Settings</b>\n\n" +
				"Currently supporting English. More languages coming soon!",
			Rows: [][]Transition{backRow(ScreenSettings)},
		},
		{
			ID: "settings-response-style",
			Body: "📝 <b>Response Style</b>\n\n" +
				"Choose how detailed you want the bot's responses to be. " +
				"Feature coming soon!",
			Rows: [][]Transition{backRow(ScreenSettings)},
		},
		{
			ID: "settings-rag",
			Body: "🎯 <b>RAG Settings</b>\n\n" +
				"Customize search parameters and retrieval settings. " +
				"Advanced feature coming soon!",
			Rows: [][]Transition{backRow(ScreenSettings)},
		},
		{
			ID: "settings-clear",
			Body: "🗑️ <b>Clear History</b>\n\n" +
				"⚠️ This will permanently delete:\n" +
				"• Your conversation context\n" +
				"• Usage counters\n\n" +
				"Your settings will be preserved.\n\n" +
				"Are you sure you want to continue?",
			Rows: [][]Transition{
				{{Label: "✅ Yes", Target: ActionClearHistory}, {Label: "❌ No", Target: ScreenSettings}},
			},
		},
		{
			ID: "settings-export",
			Body: "💾 <b>Export Data</b>\n\n" +
				"⚠️ This will export:\n" +
				"• Your usage statistics\n" +
				"• Settings and preferences\n\n" +
				"The data will be sent as a file.\n\n" +
				"Continue with export?",
			Rows: [][]Transition{
				{{Label: "✅ Yes", Target: ActionConfirmExport}, {Label: "❌ No", Target: ScreenSettings}},
			},
		},
		{
			ID: ScreenHistoryCleared,
			Body: "✅ <b>History Cleared</b>\n\n" +
				"Your conversation history has been successfully cleared.\n" +
				"You can start fresh now!",
			Rows: [][]Transition{
				{{Label: "⚙️ Back to Settings", Target: ScreenSettings}},
				{{Label: "🏠 Main Menu", Target: ScreenMain}},
			},
		},
		{
			ID: ScreenExportDone,
			Body: "💾 <b>Data Export</b>\n\n" +
				"Your data export is being prepared...\n" +
				"You'll receive a file shortly with your information.",
			Rows: [][]Transition{backRow(ScreenSettings)},
		},
		{
			ID: ScreenRestarted,
			Body: "🔄 <b>Conversation Restarted</b>\n\n" +
				"Your conversation has been reset! You can now start fresh.\n\n" +
				"💡 <i>Tip: Your settings and preferences are preserved.</i>",
			Rows: [][]Transition{backRow(ScreenMain)},
		},
		{
			ID:   ScreenStats,
			Body: StatsBodyTemplate,
			Rows: [][]Transition{backRow(ScreenMain)},
		},
		{
			ID: ScreenExamples,
			Body: "💡 <b>Example Queries</b>\n\n" +
				"Here are some types of questions you can ask:\n\n" +
				"• <b>Document Questions</b> - Ask about specific documents\n" +
				"• <b>Search Information</b> - Find specific facts or data\n" +
				"• <b>General Questions</b> - Broad topic inquiries\n" +
				"• <b>Related Topics</b> - Explore connected subjects",
			Rows: [][]Transition{
				{{Label: "📖 Documents", Target: "example-documents"}, {Label: "🔍 Search", Target: "example-search"}},
				{{Label: "💡 General", Target: "example-general"}, {Label: "🔗 Related", Target: "example-related"}},
				backRow(ScreenMain),
			},
		},
		{
			ID: "example-documents",
			Body: "📖 <b>Document Questions</b>\n\n" +
				"Try asking questions like:\n\n" +
				"• \"What does the user manual say about installation?\"\n" +
				"• \"Find information about pricing in the documentation\"\n" +
				"• \"Summarize the key points from the latest report\"\n" +
				"• \"What are the requirements mentioned in the specs?\"",
			Rows: [][]Transition{backRow(ScreenExamples)},
		},
		{
			ID: "example-search",
			Body: "🔍 <b>Search Information</b>\n\n" +
				"Try these search queries:\n\n" +
				"• \"What is machine learning?\"\n" +
				"• \"Find data about climate change trends\"\n" +
				"• \"Search for information about Python programming\"\n" +
				"• \"Look up facts about renewable energy\"",
			Rows: [][]Transition{backRow(ScreenExamples)},
		},
		{
			ID: "example-general",
			Body: "💡 <b>General Questions</b>\n\n" +
				"Ask about any topic:\n\n" +
				"• \"Explain how blockchain works\"\n" +
				"• \"What are the benefits of meditation?\"\n" +
				"• \"How does photosynthesis work?\"\n" +
				"• \"Tell me about artificial intelligence\"",
			Rows: [][]Transition{backRow(ScreenExamples)},
		},
		{
			ID: "example-related",
			Body: "🔗 <b>Related Topics</b>\n\n" +
				"Explore connections:\n\n" +
				"• \"What topics are related to data science?\"\n" +
				"• \"Show me concepts connected to quantum physics\"\n" +
				"• \"What else should I know about cybersecurity?\"",
			Rows: [][]Transition{backRow(ScreenExamples)},
		},
		{
			ID: ScreenLegal,
			Body: "⚖️ <b>Legal Compliance Topics</b>\n\n" +
				"Structured guidance for SMEs and startups:\n\n" +
				"• <b>Business Setup</b> - Incorporation, licensing\n" +
				"• <b>Contracts</b> - Agreements, terms of service\n" +
				"• <b>Intellectual Property</b> - Trademarks, patents, copyright\n" +
				"• <b>Regulations</b> - Industry-specific compliance\n" +
				"• <b>Employment Law</b> - Hiring, policies, disputes",
			Rows: [][]Transition{
				{{Label: "🏢 Business Setup", Target: "legal-business"}, {Label: "📄 Contracts", Target: "legal-contracts"}},
				{{Label: "💡 Intellectual Property", Target: "legal-ip"}, {Label: "📊 Regulations", Target: "legal-regulations"}},
				{{Label: "👨‍💼 Employment Law", Target: "legal-employment"}},
				backRow(ScreenMain),
			},
		},
		{
			ID: "legal-business",
			Body: "🏢 <b>Business Setup</b>\n\n" +
				"Ask me about:\n\n" +
				"• Choosing a legal structure (LLC, corporation, partnership)\n" +
				"• Registration and licensing requirements\n" +
				"• Founder agreements and equity splits\n" +
				"• Regulatory filings for your industry",
			Rows: [][]Transition{backRow(ScreenLegal)},
		},
		{
			ID: "legal-contracts",
			Body: "📄 <b>Contracts</b>\n\n" +
				"Ask me about:\n\n" +
				"• Service agreements and SOWs\n" +
				"• Terms of service and acceptable use policies\n" +
				"• NDAs and confidentiality clauses\n" +
				"• Vendor and supplier contracts",
			Rows: [][]Transition{backRow(ScreenLegal)},
		},
		{
			ID: "legal-ip",
			Body: "💡 <b>Intellectual Property</b>\n\n" +
				"Ask me about:\n\n" +
				"• Trademark registration and protection\n" +
				"• Copyright for software and content\n" +
				"• Patent basics for startups\n" +
				"• Open-source license compliance",
			Rows: [][]Transition{backRow(ScreenLegal)},
		},
		{
			ID: "legal-regulations",
			Body: "📊 <b>Regulations</b>\n\n" +
				"Ask me about:\n\n" +
				"• GDPR, PDPA and data protection duties\n" +
				"• Sector rules for fintech, health, e-commerce\n" +
				"• Consumer protection requirements\n" +
				"• Cross-border compliance",
			Rows: [][]Transition{backRow(ScreenLegal)},
		},
		{
			ID: "legal-employment",
			Body: "👨‍💼 <b>Employment Law</b>\n\n" +
				"Ask me about:\n\n" +
				"• Employment contracts and offer letters\n" +
				"• Contractor vs employee classification\n" +
				"• Workplace policies and handbooks\n" +
				"• Termination and dispute handling",
			Rows: [][]Transition{backRow(ScreenLegal)},
		},
		{
			ID: ScreenEmergency,
			Body: "🚨 <b>Emergency Response</b>\n\n" +
				"Urgent guidance when something has already gone wrong:\n\n" +
				"• <b>Data Breach</b> - Immediate containment steps\n" +
				"• <b>Cyber Attack</b> - Active incident response\n" +
				"• <b>Legal Emergency</b> - Urgent legal exposure\n" +
				"• <b>Compliance Violation</b> - Regulator notifications",
			Rows: [][]Transition{
				{{Label: "🚨 Data Breach Guide", Target: "emergency-breach"}, {Label: "⚠️ Cyber Attack", Target: "emergency-attack"}},
				{{Label: "📞 Legal Emergency", Target: "emergency-legal"}, {Label: "🔍 Compliance Violation", Target: "emergency-compliance"}},
				backRow(ScreenMain),
			},
		},
		{
			ID: "emergency-breach",
			Body: "🚨 <b>Data Breach Guide</b>\n\n" +
				"1️⃣ Contain: isolate affected systems\n" +
				"2️⃣ Assess: what data, how many subjects\n" +
				"3️⃣ Notify: regulators within statutory deadlines (72h under GDPR)\n" +
				"4️⃣ Document: keep a full incident record\n\n" +
				"Ask me for specifics on any step.",
			Rows: [][]Transition{backRow(ScreenEmergency)},
		},
		{
			ID: "emergency-attack",
			Body: "⚠️ <b>Cyber Attack Response</b>\n\n" +
				"1️⃣ Disconnect compromised machines from the network\n" +
				"2️⃣ Preserve logs and evidence\n" +
				"3️⃣ Activate your incident response plan\n" +
				"4️⃣ Engage forensics before wiping anything\n\n" +
				"Ask me about ransomware, phishing, or account takeover specifics.",
			Rows: [][]Transition{backRow(ScreenEmergency)},
		},
		{
			ID: "emergency-legal",
			Body: "📞 <b>Legal Emergency</b>\n\n" +
				"Received a demand letter, subpoena, or regulator inquiry?\n\n" +
				"• Do not respond before reviewing obligations\n" +
				"• Preserve all related documents\n" +
				"• Note every deadline in the notice\n\n" +
				"Ask me what the notice means and what typically comes next.",
			Rows: [][]Transition{backRow(ScreenEmergency)},
		},
		{
			ID: "emergency-compliance",
			Body: "🔍 <b>Compliance Violation</b>\n\n" +
				"Discovered a gap in your own compliance?\n\n" +
				"• Stop the non-compliant processing\n" +
				"• Assess whether notification duties apply\n" +
				"• Record remediation steps taken\n\n" +
				"Ask me about self-reporting and mitigation.",
			Rows: [][]Transition{backRow(ScreenEmergency)},
		},
		{
			ID: ScreenQuickAccess,
			Body: "⚡ <b>Quick Access Menu</b>\n\n" +
				"Use the buttons below for instant access to common tasks.\n\n" +
				"💡 <i>You can also type any question directly.</i>",
			ReplyRows: [][]string{
				{"🆘 Help", "⚙️ Settings"},
				{"📋 Menu", "❌ Hide Keyboard"},
			},
		},
		{
			ID:             ScreenKeyboardHidden,
			Body:           "✅ Keyboard hidden. Bring it back with /keyboard or /menu",
			RemoveKeyboard: true,
		},
	}
}

// NewDefaultGraph builds the production menu graph from the static content.
func NewDefaultGraph() (*Graph, error) {
	return NewGraph(Screens(), Actions())
}
