// Package catalog holds the static menu tables for the Xtenda Finance bot:
// selector identifiers, display labels and the content blocks they map to.
// Everything here is immutable and safe for concurrent reads.
package catalog

// Button is a single reply button (WhatsApp allows at most 3 per message).
type Button struct {
	ID    string
	Title string
}

// Row is one entry in an interactive list message.
type Row struct {
	ID          string
	Title       string
	Description string
}

// Section groups list rows under a named header.
type Section struct {
	Title string
	Rows  []Row
}

// Main menu selectors.
const (
	MenuMain        = "menu_main"
	MenuProducts    = "menu_products"
	MenuEligibility = "menu_eligibility"
	MenuApply       = "menu_apply"
	MenuCallback    = "menu_callback"
	MenuAI          = "menu_ai"
)

// ProductInfo maps a product selector to its detail text.
var ProductInfo = map[string]string{
	"prod_personal": "💳 *Personal Loan*\n\n" +
		"• Amount: ZMW 1,000 – 50,000\n" +
		"• Term: 3 – 24 months\n" +
		"• Rate: From 4.5% per month\n" +
		"• Required: NRC, payslip, 3-month bank statement\n\n" +
		"Approval within 24–48 hours ✅",
	"prod_business": "🏢 *Business Loan*\n\n" +
		"• Amount: ZMW 5,000 – 500,000\n" +
		"• Term: 6 – 36 months\n" +
		"• Rate: From 3.8% per month\n" +
		"• Required: Business reg, financials, NRC\n\n" +
		"Ideal for stock, equipment or expansion 📈",
	"prod_salary": "💼 *Salary-Backed Loan*\n\n" +
		"• Up to 3× your net monthly salary\n" +
		"• Repaid via payroll deduction (stress-free!)\n" +
		"• Available to civil servants & private employees\n" +
		"• ✅ Same-day approval in most cases!\n\n" +
		"Fastest loan we offer 🚀",
	"prod_asset": "🚗 *Asset Finance*\n\n" +
		"• Finance vehicles, equipment & machinery\n" +
		"• Terms: Up to 60 months\n" +
		"• New & used assets accepted\n" +
		"• Competitive interest rates\n\n" +
		"Drive your business forward 💪",
}

// LoanTypeNames maps an apply selector to the loan type recorded on the lead.
var LoanTypeNames = map[string]string{
	"apply_personal": "Personal Loan",
	"apply_business": "Business Loan",
	"apply_salary":   "Salary-Backed Loan",
	"apply_asset":    "Asset Finance",
}

// EmploymentLabels maps an employment selector to its recorded label.
var EmploymentLabels = map[string]string{
	"emp_employed":     "Employed",
	"emp_selfemployed": "Self-Employed",
	"emp_civil":        "Civil Servant",
}

// CallbackTimeLabels maps a time-slot selector to its recorded label.
var CallbackTimeLabels = map[string]string{
	"time_morning":   "Morning (8am–12pm)",
	"time_afternoon": "Afternoon (12pm–5pm)",
	"time_evening":   "Evening (5pm–7pm)",
}

// MenuKeywords are greetings and escape words that reset any conversation
// back to the main menu.
var MenuKeywords = map[string]struct{}{
	"menu": {}, "hi": {}, "hello": {}, "start": {}, "hie": {}, "hey": {},
	"muli bwanji": {}, "mwabonwa": {}, "howzit": {}, "back": {},
	"restart": {}, "home": {},
}

// IsMenuKeyword reports whether the lowercased input is a reset keyword.
func IsMenuKeyword(text string) bool {
	_, ok := MenuKeywords[text]
	return ok
}

// EligibilityText is the content block behind the "Check Eligibility" selector.
const EligibilityText = "✅ *Eligibility Requirements*\n\n" +
	"To qualify for an Xtenda Finance loan:\n\n" +
	"• 🎂 Age 18 or above\n" +
	"• 🇿🇲 Zambian citizen or resident\n" +
	"• 💼 Employed OR running a business for 6+ months\n" +
	"• 🪪 Valid NRC\n" +
	"• 🏦 Active bank account\n\n" +
	"If you meet these, you're likely eligible! 🎉"

// MainMenuSections returns the rows of the top-level menu list.
func MainMenuSections() []Section {
	return []Section{{
		Title: "Main Menu",
		Rows: []Row{
			{ID: MenuProducts, Title: "💰 Our Loan Products", Description: "View all loan types & rates"},
			{ID: MenuEligibility, Title: "✅ Check Eligibility", Description: "See if you qualify"},
			{ID: MenuApply, Title: "📋 Apply / Get a Quote", Description: "Start your loan application"},
			{ID: MenuCallback, Title: "📞 Book a Callback", Description: "Speak to our sales team"},
			{ID: MenuAI, Title: "❓ Ask a Question", Description: "Ask us anything"},
		},
	}}
}

// ProductMenuSections returns the product list, including the back row.
func ProductMenuSections() []Section {
	return []Section{{
		Title: "Loan Products",
		Rows: []Row{
			{ID: "prod_personal", Title: "💳 Personal Loan", Description: "ZMW 1,000 – 50,000 | 3–24 months"},
			{ID: "prod_business", Title: "🏢 Business Loan", Description: "ZMW 5,000 – 500,000 | 6–36 months"},
			{ID: "prod_salary", Title: "💼 Salary-Backed Loan", Description: "Up to 3× net salary | Fastest approval"},
			{ID: "prod_asset", Title: "🚗 Asset Finance", Description: "Vehicles & equipment | Up to 60 months"},
			{ID: MenuMain, Title: "🔙 Back to Main Menu"},
		},
	}}
}

// LoanTypeSections returns the apply-flow loan type list.
func LoanTypeSections() []Section {
	return []Section{{
		Title: "Loan Type",
		Rows: []Row{
			{ID: "apply_personal", Title: "💳 Personal Loan"},
			{ID: "apply_business", Title: "🏢 Business Loan"},
			{ID: "apply_salary", Title: "💼 Salary-Backed Loan"},
			{ID: "apply_asset", Title: "🚗 Asset Finance"},
		},
	}}
}

// EmploymentButtons returns the employment status reply buttons.
func EmploymentButtons() []Button {
	return []Button{
		{ID: "emp_employed", Title: "🏦 Employed"},
		{ID: "emp_selfemployed", Title: "🏪 Self-Employed"},
		{ID: "emp_civil", Title: "🏛️ Civil Servant"},
	}
}

// CallbackTimeButtons returns the callback time-slot reply buttons.
func CallbackTimeButtons() []Button {
	return []Button{
		{ID: "time_morning", Title: "🌅 Morning (8–12)"},
		{ID: "time_afternoon", Title: "☀️ Afternoon (12–17)"},
		{ID: "time_evening", Title: "🌆 Evening (17–19)"},
	}
}

// BackPromptButtons returns the next-step buttons shown after a content block.
func BackPromptButtons() []Button {
	return []Button{
		{ID: MenuApply, Title: "📋 Apply Now"},
		{ID: MenuCallback, Title: "📞 Book Callback"},
		{ID: MenuMain, Title: "🔙 Main Menu"},
	}
}
