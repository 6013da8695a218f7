package model

// TaskCatalog is the daily task list of the farm. Every entry has a done flag
// (`f` on the wire) and the counters the task needs.
type TaskCatalog struct {
	SignIn      SignInTask      `json:"signInit"`
	FirstWater  FirstWaterTask  `json:"firstWaterInit"`
	TotalWater  TotalWaterTask  `json:"totalWaterTaskInit"`
	WaterFriend WaterFriendTask `json:"waterFriendTaskInit"`
	BrowseAds   BrowseTask      `json:"gotBrowseTaskAdInit"`
	PromoEntry  PromoEntryTask  `json:"treasureBoxInit"`
	WaterRain   WaterRainTask   `json:"waterRainInit"`
	ThreeMeals  ThreeMealsTask  `json:"gotThreeMealInit"`
}

// SignInTask is the daily sign-in.
type SignInTask struct {
	Done bool `json:"f"`
}

// FirstWaterTask rewards the first watering of the day.
type FirstWaterTask struct {
	Done bool `json:"f"`
}

// TotalWaterTask rewards watering Limit times in a day.
type TotalWaterTask struct {
	Done  bool `json:"f"`
	Limit int  `json:"totalWaterTaskLimit"`
	Times int  `json:"totalWaterTaskTimes"`
}

// Pending returns the waterings still needed, never negative.
func (t TotalWaterTask) Pending() int {
	if t.Times >= t.Limit {
		return 0
	}
	return t.Limit - t.Times
}

// WaterFriendTask rewards watering Max friends in a day.
type WaterFriendTask struct {
	Done     bool `json:"f"`
	Max      int  `json:"waterFriendMax"`
	Count    int  `json:"waterFriendCountKey"`
	GotAward bool `json:"waterFriendGotAward"`
}

// Pending returns the friend waterings still needed, never negative.
func (t WaterFriendTask) Pending() int {
	if t.Count >= t.Max {
		return 0
	}
	return t.Max - t.Count
}

// BrowseTask is the ad browsing task list.
type BrowseTask struct {
	Done bool       `json:"f"`
	Ads  []BrowseAd `json:"userBrowseTaskAds"`
}

// BrowseAd is a single ad that rewards watching it for WaitSeconds.
type BrowseAd struct {
	AdvertID      string `json:"advertId"`
	Title         string `json:"mainTitle"`
	Limit         int    `json:"limit"`
	FinishedTimes int    `json:"hadFinishedTimes"`
	WaitSeconds   int    `json:"time"`
	GotTimes      int    `json:"hadGotTimes"`
}

// Completed returns true when the ad reached its daily limit.
func (a BrowseAd) Completed() bool { return a.FinishedTimes >= a.Limit }

// PromoEntryTask rewards entering the farm through the app promo page.
type PromoEntryTask struct {
	Done bool `json:"f"`
	// Line is the route token the confirmation call needs.
	Line string `json:"line"`
}

// WaterRainTask is the water rain event, available every 3 hours.
type WaterRainTask struct {
	Done     bool `json:"f"`
	WinTimes int  `json:"winTimes"`
	// LastTime is the last event time in milliseconds since epoch.
	LastTime int64 `json:"lastTime"`
}

// ThreeMealsTask is the scheduled meal time claim.
type ThreeMealsTask struct {
	Done bool `json:"f"`
}
