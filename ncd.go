package offerdoc

// NCD is the record extracted from one non-convertible debenture page.
type NCD struct {
	Slug        string  `json:"slug"`
	Issuer      string  `json:"issuer"`
	IssueName   string  `json:"issue_name"`
	LogoURL     *string `json:"logo_url"`
	Description string  `json:"description"`
	OpenDate    *Date   `json:"open_date"`
	CloseDate   *Date   `json:"close_date"`

	IssueSizeOverall          *float64 `json:"issue_size_overall"`
	CouponRateMin             *float64 `json:"coupon_rate_min"`
	CouponRateMax             *float64 `json:"coupon_rate_max"`
	SecurityName              *string  `json:"security_name"`
	SecurityType              *string  `json:"security_type"`
	IssueSizeBase             *float64 `json:"issue_size_base"`
	IssueSizeOversubscription *float64 `json:"issue_size_oversubscription"`
	OverallIssueSize          *float64 `json:"overall_issue_size"`
	IssuePricePerNCD          *float64 `json:"issue_price_per_ncd"`
	FaceValuePerNCD           *float64 `json:"face_value_per_ncd"`
	MinimumLotSizeNCD         *float64 `json:"minimum_lot_size_ncd"`
	MarketLotNCD              *float64 `json:"market_lot_ncd"`
	Exchanges                 []string `json:"exchanges"`
	BasisOfAllotment          *string  `json:"basis_of_allotment"`
	DebentureTrustee          *string  `json:"debenture_trustee"`
	Promoters                 []string `json:"promoters"`

	CouponSeries      []CouponSeries     `json:"coupon_series"`
	Ratings           []Rating           `json:"ratings"`
	CompanyFinancials *CompanyFinancials `json:"company_financials"`
	NCDAllocation     *NCDAllocation     `json:"ncd_allocation"`
	ObjectsOfIssue    []string           `json:"objects_of_issue"`
	CompanyContact    *NCDContact        `json:"company_contact"`
	Registrar         *Registrar         `json:"registrar"`
	LeadManagers      []string           `json:"lead_managers"`
	Documents         []DocumentLink     `json:"documents"`
	FAQ               []NCDFAQ           `json:"faq"`
	News              []string           `json:"news"`
}

// CouponSeries is one series column of the coupon table. Numeric
// values default to zero when the page shows "NA".
type CouponSeries struct {
	SeriesName                 string  `json:"series_name"`
	FrequencyOfInterestPayment string  `json:"frequency_of_interest_payment"`
	Nature                     string  `json:"nature"`
	Tenor                      string  `json:"tenor"`
	CouponPercentPA            float64 `json:"coupon_percent_pa"`
	EffectiveYieldPercentPA    float64 `json:"effective_yield_percent_pa"`
	AmountOnMaturity           float64 `json:"amount_on_maturity"`
}

// Rating is one credit rating of the issue.
type Rating struct {
	RatingAgency string `json:"rating_agency"`
	NCDRating    string `json:"ncd_rating"`
	Outlook      string `json:"outlook"`
	SafetyDegree string `json:"safety_degree"`
	RiskDegree   string `json:"risk_degree"`
}

// CompanyFinancials is the issuer financials table of an NCD page.
type CompanyFinancials struct {
	Unit    string            `json:"unit"`
	Periods []FinancialPeriod `json:"periods"`
}

// FinancialPeriod is one column of the issuer financials table.
type FinancialPeriod struct {
	PeriodEnd      string  `json:"period_end"`
	Assets         float64 `json:"assets"`
	TotalIncome    float64 `json:"total_income"`
	ProfitAfterTax float64 `json:"profit_after_tax"`
}

// NCDAllocation is the category-wise allocation of an issue.
type NCDAllocation struct {
	TotalShares float64              `json:"total_shares"`
	Categories  []AllocationCategory `json:"categories"`
}

// AllocationCategory is one investor category of an allocation table.
type AllocationCategory struct {
	Category            string  `json:"category"`
	AllocatedPercentage float64 `json:"allocated_percentage"`
	SharesReserved      float64 `json:"shares_reserved"`
}

// NCDContact is the issuer contact block of an NCD page.
type NCDContact struct {
	CompanyName  string   `json:"company_name"`
	AddressLine1 string   `json:"address_line_1"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Pincode      string   `json:"pincode"`
	PhoneNumbers []string `json:"phone_numbers"`
	Email        string   `json:"email"`
	Website      string   `json:"website"`
}

// DocumentLink is an offer document linked from an NCD page.
type DocumentLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// NCDFAQ is a question and answer pair from an NCD page.
type NCDFAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
