package ui

// Application identity
const (
	AppID      = "com.ytget.omnitool"
	AppName    = "OmniTool"
	AppTagline = "Your All-in-One Toolkit"
	IconApp    = "🛠️"
)

// Launcher text
const (
	SearchPlaceholder = "🔍 Search tools..."
	CategoriesTitle   = "📂 Categories"
	OptionAllTools    = "All Tools"
	TotalToolsFormat  = "📊 Total Tools: %d"
	NoResultsText     = "😕 No tools found matching your search"
	FooterFormat      = "OmniTool %s | All you need in one place."
	LabelOpenTool     = "Open"
)

// Layout sizing
const (
	WindowWidth   float32 = 1200
	WindowHeight  float32 = 800
	GridColumns           = 4
	SidebarOffset         = 0.22
)
