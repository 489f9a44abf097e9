package domain

// Subcategories maps each category to its selectable subcategories.
var Subcategories = map[TicketCategory][]string{
	CategoryHardware: {
		"Desktop/Laptop",
		"Printer/Scanner",
		"Projector/Display",
		"Network Equipment",
		"Keyboard/Mouse",
		"Monitor",
		"Phone/Tablet",
		"Other Hardware",
	},
	CategorySoftware: {
		"Operating System",
		"Microsoft Office",
		"Email/Outlook",
		"Browser",
		"Learning Management System",
		"Grading Software",
		"Antivirus/Security",
		"Network/Internet",
		"Account/Password",
		"Other Software",
	},
}

// Locations lists the known rooms and facilities of the school.
var Locations = []string{
	"Room 101",
	"Room 102",
	"Room 103",
	"Room 104",
	"Room 105",
	"Room 201",
	"Room 202",
	"Room 203",
	"Room 204",
	"Room 205",
	"Computer Lab A",
	"Computer Lab B",
	"Library",
	"Auditorium",
	"Main Office",
	"Teacher Lounge",
	"Gymnasium",
	"Cafeteria",
	"Science Lab",
	"Art Room",
}
