package engine

import (
	"fmt"

	"github.com/xtendafinance/loanbot/internal/catalog"
)

const (
	askAmountPrompt = "How much would you like to borrow? 💵\n" +
		"Please enter the amount in ZMW\n" +
		"_(e.g. 15000)_"

	invalidAmountPrompt = "Please enter a number — e.g. *15000* (no letters or symbols)"

	askNamePrompt = "Almost done! 😊\n\nWhat is your *full name*?"

	callbackIntroPrompt = "📞 *Book a Callback*\n\n" +
		"One of our sales agents will call you!\n\n" +
		"First, what is your *full name*?"

	aiIntroPrompt = "🤖 You can ask me anything about Xtenda Finance!\n\n" +
		"Go ahead — type your question 👇\n" +
		"_(Type *menu* anytime to go back)_"

	menuHintPrompt = "─────────────────\nType *menu* anytime to go back to the main menu 🏠"

	answerFallback = "Sorry, I couldn't answer that right now. 🙏\n" +
		"Type *menu* to see what I can help with, or book a callback and our team will assist you."

	degradedNotice = "⚠️ Note: There was a small issue saving your details.\n" +
		"Our team will still follow up — but please also call us on *+260 XXX XXX XXX* to confirm."
)

func mainMenu(displayName string) ListAction {
	return ListAction{
		Body: fmt.Sprintf("Hello %s! 👋 Welcome to *Xtenda Finance*.\n\n"+
			"We offer fast, affordable loans in Zambia 🇿🇲\n"+
			"How can we help you today?", displayName),
		ButtonLabel: "Choose an Option",
		Sections:    catalog.MainMenuSections(),
	}
}

func productMenu() ListAction {
	return ListAction{
		Body:        "We have 4 loan products 👇\nSelect one to see details:",
		ButtonLabel: "View Product",
		Sections:    catalog.ProductMenuSections(),
	}
}

func loanTypeSelection() ListAction {
	return ListAction{
		Body:        "Great! Let's get you started 🚀\n\nWhich type of loan are you applying for?",
		ButtonLabel: "Select Loan Type",
		Sections:    catalog.LoanTypeSections(),
	}
}

func employmentSelection() ButtonsAction {
	return ButtonsAction{
		Body:    "What is your employment status?",
		Buttons: catalog.EmploymentButtons(),
	}
}

func callbackTimeSelection() ButtonsAction {
	return ButtonsAction{
		Body:    "When would you prefer our team to call you?",
		Buttons: catalog.CallbackTimeButtons(),
	}
}

func backPrompt() ButtonsAction {
	return ButtonsAction{
		Body:    "What would you like to do next?",
		Buttons: catalog.BackPromptButtons(),
	}
}

func confirmation(name, loanType, loanAmount, callbackTime, reference string) TextAction {
	return TextAction{Body: fmt.Sprintf("🎉 *Thank you, %s!*\n\n"+
		"Your request has been received:\n"+
		"• Loan Type: %s\n"+
		"• Amount: %s\n"+
		"• Callback: %s\n\n"+
		"Our sales team will call you during your preferred time 📞\n\n"+
		"_Reference %s_ | Xtenda Finance 🇿🇲", name, loanType, loanAmount, callbackTime, reference)}
}
