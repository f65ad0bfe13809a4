package render

// Palette holds the template's color declarations as raw strings. Values are
// parsed lazily at draw time and neutralized to safe fallbacks when the
// rasterizer cannot understand them.
type Palette struct {
	Background  string
	Maroon      string
	Brown       string
	TableHeader string
	Ink         string
}

// Template carries the fixed copy printed on every membership card. Field
// values from the member record are substituted at render time.
type Template struct {
	TitleMain    string
	TitleSub     string
	AddressLine1 string
	AddressLine2 string
	Slogan       string
	CardTitle    string

	Disclaimer     string
	AuthorizedName string
	AuthorizedRole string
	EmergencyTitle string

	OfficeTitle    string
	OfficeNote     string
	OfficeTagline1 string
	OfficeTagline2 string
	OfficeTel      string
	OfficeCell     string
	OfficeEmail    string

	TableHeaders [5]string

	Palette Palette
}

// DefaultTemplate returns the federation card artwork copy.
func DefaultTemplate() Template {
	return Template{
		TitleMain:    "FONUS CEBU",
		TitleSub:     "FEDERATION OF COOPERATIVES",
		AddressLine1: "R. Colina St., Ibabao Estancia Mandaue City 6014, Cebu, Philippines CDA Reg. #: 9520-07020096",
		AddressLine2: "TIN No.: 411-660-058-000 Tel. #: 09669125244 Email Add: membershipofficer.fonuscebu@gmail.com",
		Slogan:       "We Value Human Dignity",
		CardTitle:    "MEMBERSHIP CERTIFICATE CARD",

		Disclaimer: "This Membership Certificate Card entitles the bearer to the entitled to discounts " +
			"and privileges from various accredited merchants of Fonus Cebu. To enjoy the privileges " +
			"at partner of membership, please present this card and tampering will invalidate this card.",
		AuthorizedName: "JOCELYN Q. CARDENAS",
		AuthorizedRole: "Authorized Signature:",
		EmergencyTitle: "IN CASE OF EMERGENCY, PLEASE NOTIFY",

		OfficeTitle:    "FONUS CEBU FEDERATION OF COOPERATIVES",
		OfficeNote:     "In case of loss, please return to the nearest Fonus Cebu Office",
		OfficeTagline1: "We are here...",
		OfficeTagline2: "When you need us...",
		OfficeTel:      "Tel. #: (032) 274-2433",
		OfficeCell:     "Cell #: 0943 653 0264",
		OfficeEmail:    "Email Add: membershipofficer.fonuscebu@gmail.com",

		TableHeaders: [5]string{"YEAR", "PACKAGES", "VALIDITY", "COOP REPRESENTATIVE", "REMARKS"},

		Palette: Palette{
			Background:  "#fcf8e3",
			Maroon:      "#520000",
			Brown:       "#3d1e00",
			TableHeader: "#eaddb6",
			Ink:         "#000000",
		},
	}
}
