package offerdoc

// IPOCategory is the constant category of every IPO record.
const IPOCategory = "IPO"

// DefaultExchange is used when an IPO page names no listing exchange.
const DefaultExchange = "BSE & NSE"

// IPO is the record extracted from one IPO page.
type IPO struct {
	ExternalID int    `json:"external_id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Exchange   string `json:"exchange"`

	IssueSizeCrore           *float64 `json:"issue_size_crore"`
	FreshIssueCrore          *float64 `json:"fresh_issue_crore"`
	OFSIssueCrore            *float64 `json:"ofs_issue_crore"`
	MarketMakerReservedCrore *float64 `json:"market_maker_reserved_crore"`

	FaceValue      *float64 `json:"face_value"`
	IssueType      *string  `json:"issue_type"`
	SaleType       *string  `json:"sale_type"`
	IssuePriceLow  *float64 `json:"issue_price_low"`
	IssuePriceHigh *float64 `json:"issue_price_high"`
	LotSize        *int     `json:"lot_size"`
	SingleLotPrice *float64 `json:"single_lot_price"`
	SmallHNILot    *int     `json:"small_hni_lot"`
	BigHNILot      *int     `json:"big_hni_lot"`

	IssueOpenDate  *Date `json:"issue_open_date"`
	IssueCloseDate *Date `json:"issue_close_date"`
	AllotmentDate  *Date `json:"allotment_date"`
	RefundDate     *Date `json:"refund_date"`
	ListingDate    *Date `json:"listing_date"`
	BOADate        *Date `json:"boa_date"`
	COSDate        *Date `json:"cos_date"`

	PromoterHoldingPre  *float64 `json:"promoter_holding_pre"`
	PromoterHoldingPost *float64 `json:"promoter_holding_post"`

	Website *string `json:"website"`
	Sector  *string `json:"sector"`

	AboutCompany  []string `json:"about_company"`
	Strengths     []string `json:"strengths"`
	Products      []string `json:"products"`
	Services      []string `json:"services"`
	Promoters     []string `json:"promoters"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`

	DRHPURL            *string `json:"drhp_url"`
	RHPURL             *string `json:"rhp_url"`
	FinalProspectusURL *string `json:"final_prospectus_url"`
	AnchorListURL      *string `json:"anchor_list_url"`
	LogoURL            *string `json:"logo_url"`

	BSECode      *string  `json:"bse_code"`
	NSECode      *string  `json:"nse_code"`
	IsTentative  bool     `json:"isTentative"`
	Rating       *float64 `json:"rating"`
	ListingPrice *float64 `json:"listing_price"`

	Objectives      []Objective      `json:"objectives"`
	Financials      []Financial      `json:"financials"`
	Peers           []Peer           `json:"peers"`
	CompanyContacts []CompanyContact `json:"company_contacts"`
	Registrar       *Registrar       `json:"registrar"`
	LeadManagers    []string         `json:"lead_managers"`
	Reservations    []Reservation    `json:"reservations"`
	FAQs            []IPOFAQ         `json:"faqs"`
	RHPInsights     []RHPInsight     `json:"rhp_insights"`
}

// Objective is one row of the objects-of-the-issue table.
type Objective struct {
	SNo         int     `json:"sno"`
	Description string  `json:"description"`
	AmountCrore float64 `json:"amount_crore"`
}

// Financial is one reporting period of the company financials table.
// Amounts are in crore and default to zero.
type Financial struct {
	PeriodLabel   string  `json:"period_label"`
	PeriodEndDate *Date   `json:"period_end_date"`
	Assets        float64 `json:"assets"`
	TotalIncome   float64 `json:"total_income"`
	PAT           float64 `json:"pat"`
	EBITDA        float64 `json:"ebitda"`
	NetWorth      float64 `json:"net_worth"`
	Reserves      float64 `json:"reserves"`
	Borrowings    float64 `json:"borrowings"`
}

// Peer is one row of the peer comparison table.
type Peer struct {
	Company    string  `json:"company"`
	EPSBasic   float64 `json:"eps_basic"`
	EPSDiluted float64 `json:"eps_diluted"`
	NAV        float64 `json:"nav"`
	PE         float64 `json:"pe"`
	RoNW       float64 `json:"ronw"`
}

// CompanyContact is the issuer contact block of an IPO page.
type CompanyContact struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

// Registrar is the registrar of an issue.
type Registrar struct {
	Name         string   `json:"name"`
	PhoneNumbers []string `json:"phone_numbers"`
	Email        string   `json:"email"`
	Website      string   `json:"website"`
}

// Reservation holds the share of the issue reserved per investor
// category, in percent. Every category defaults to zero.
type Reservation struct {
	QIB         float64 `json:"qib"`
	Anchor      float64 `json:"anchor"`
	ExAnchor    float64 `json:"ex_anchor"`
	NII         float64 `json:"nii"`
	BNII        float64 `json:"bnii"`
	SNII        float64 `json:"snii"`
	Retail      float64 `json:"retail"`
	Employee    float64 `json:"employee"`
	Shareholder float64 `json:"shareholder"`
	Other       float64 `json:"other"`
	Total       float64 `json:"total"`
}

// IPOFAQ is a question and answer pair from an IPO page.
type IPOFAQ struct {
	Question string `json:"question"`
	Answers  string `json:"answers"`
}

// RHPInsight is a highlight taken from the red herring prospectus.
type RHPInsight struct {
	Title       string `json:"tittle"`
	Description string `json:"description"`
	Impact      int    `json:"impact"`
}
