package agency

// Currency is the billing currency. The subsystem operates in a single unit.
type Currency string

// CurrencyUSD is the only currency the estimator and billing accounts use.
const CurrencyUSD Currency = "USD"

// BillingAccount is a line of credit an agency company settles against.
type BillingAccount struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Currency    Currency `yaml:"currency" json:"currency"`
	CreditLimit int64    `yaml:"credit_limit" json:"creditLimit"`
	UsedAmount  int64    `yaml:"used_amount" json:"usedAmount"`
	TermDays    int      `yaml:"term_days" json:"termDays"`
}

// AvailableCredit returns the remaining credit on an account, never negative.
// A nil account yields zero credit.
func AvailableCredit(account *BillingAccount) int64 {
	if account == nil {
		return 0
	}
	if account.UsedAmount >= account.CreditLimit {
		return 0
	}
	return account.CreditLimit - account.UsedAmount
}

// AgencyCompany is a shipping agency with one or more billing accounts.
type AgencyCompany struct {
	ID       string           `yaml:"id" json:"id"`
	Name     string           `yaml:"name" json:"name"`
	Accounts []BillingAccount `yaml:"accounts" json:"accounts"`
}

// Directory is a read-only registry of agency companies. A production
// deployment would back this with a service call; the lookup contract is
// what matters here.
type Directory struct {
	companies []AgencyCompany
}

// NewDirectory constructs a directory over the given companies.
func NewDirectory(companies []AgencyCompany) *Directory {
	return &Directory{companies: companies}
}

// Companies returns all registered companies.
func (d *Directory) Companies() []AgencyCompany {
	if d == nil {
		return nil
	}
	return d.companies
}

// Company returns the company with the given id, or nil.
func (d *Directory) Company(companyID string) *AgencyCompany {
	if d == nil || companyID == "" {
		return nil
	}
	for i := range d.companies {
		if d.companies[i].ID == companyID {
			return &d.companies[i]
		}
	}
	return nil
}

// Account returns the billing account for (companyID, accountID), or nil.
func (d *Directory) Account(companyID, accountID string) *BillingAccount {
	company := d.Company(companyID)
	if company == nil || accountID == "" {
		return nil
	}
	for i := range company.Accounts {
		if company.Accounts[i].ID == accountID {
			return &company.Accounts[i]
		}
	}
	return nil
}
