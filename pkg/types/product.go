package types

// Product is a static catalog entry. Products are defined in configuration
// and never persisted per-user; subscriptions reference them by ID.
type Product struct {
	ID          string `json:"id" mapstructure:"id"`
	Name        string `json:"name" mapstructure:"name"`
	ImageURL    string `json:"imageUrl" mapstructure:"image_url"`
	Price       int64  `json:"price" mapstructure:"price"`
	MemberPrice int64  `json:"memberPrice" mapstructure:"member_price"`
	StockStatus string `json:"stockStatus,omitempty" mapstructure:"stock_status"`
	Href        string `json:"href" mapstructure:"href"`
	TrialInfo   string `json:"trialInfo" mapstructure:"trial_info"`
}
