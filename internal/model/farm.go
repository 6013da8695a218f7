package model

// FarmProgress is the state of the account's tree.
type FarmProgress struct {
	// TotalEnergy is the water drop balance.
	TotalEnergy int `json:"totalEnergy"`
	// TreeState is the growth stage of the tree.
	TreeState int `json:"treeState"`
	// TreeEnergy is the water already applied to the current tree.
	TreeEnergy int `json:"treeEnergy"`
	// TreeTotalEnergy is the water required to reach the next stage.
	TreeTotalEnergy int    `json:"treeTotalEnergy"`
	ShareCode       string `json:"shareCode"`
	NickName        string `json:"nickName"`
	PrizeName       string `json:"name"`
	PrizeLevel      int    `json:"prizeLevel"`
}

// Remaining returns the water still needed for the next stage.
func (f FarmProgress) Remaining() int {
	if f.TreeTotalEnergy < f.TreeEnergy {
		return 0
	}
	return f.TreeTotalEnergy - f.TreeEnergy
}

// FarmSnapshot is the farm progress plus the flags the farm home page
// returns alongside it.
type FarmSnapshot struct {
	Progress FarmProgress
	// CanPop is set when a pop reward is waiting to be claimed.
	CanPop bool
}

// CardType is a consumable booster card kind.
type CardType string

const (
	CardTypeDouble CardType = "doubleCard"
	CardTypeFast   CardType = "fastCard"
	CardTypeSign   CardType = "signCard"
	CardTypeBean   CardType = "beanCard"
)

// CardInventory is the booster card backpack of the account.
type CardInventory struct {
	// DoubleCard doubles the reward of the next watering.
	DoubleCard int `json:"doubleCard"`
	// FastCard waters several times at once.
	FastCard int `json:"fastCard"`
	// SignCard adds an extra clock-in signature.
	SignCard int `json:"signCard"`
	// BeanCard converts drops into the vendor currency.
	BeanCard int `json:"beanCard"`
}

// Count returns the available cards of a type.
func (c CardInventory) Count(t CardType) int {
	switch t {
	case CardTypeDouble:
		return c.DoubleCard
	case CardTypeFast:
		return c.FastCard
	case CardTypeSign:
		return c.SignCard
	case CardTypeBean:
		return c.BeanCard
	}
	return 0
}

// FriendRecord is a farm friend that can be watered.
type FriendRecord struct {
	NickName  string `json:"nickName"`
	ShareCode string `json:"shareCode"`
	// FriendState is 0 when the friend can't be watered right now.
	FriendState int `json:"friendState"`
}

// Eligible returns true when the friend can be watered.
func (f FriendRecord) Eligible() bool { return f.FriendState != 0 }

// ClockInTask is the clock-in page state: today's signature and the limited time
// follow tasks.
type ClockInTask struct {
	TodaySigned bool         `json:"todaySigned"`
	Themes      []FollowTask `json:"themes"`
}

// FollowTask is a "follow a shop to get water" entry of the clock-in page.
type FollowTask struct {
	AdvertID  string `json:"advertId"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	HadGot    bool   `json:"hadGot"`
	HadFollow bool   `json:"hadFollow"`
}

// AccountStatus is the read only farm state of an account.
type AccountStatus struct {
	AccountID   string
	AccountName string
	Snapshot    *FarmSnapshot
	Cards       *CardInventory
	// Error is set when the state could not be read.
	Error string
}
