// Package i18n has the localized messages of the farm runs. Messages are keyed by
// their English text, English printers render the key as is.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	LangEnglish = "en"
	LangChinese = "zh"
)

var supported = []language.Tag{language.English, language.SimplifiedChinese}

var matcher = language.NewMatcher(supported)

// NewPrinter returns a message printer for a language, unknown languages fall
// back to English.
func NewPrinter(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		return message.NewPrinter(language.English)
	}

	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return message.NewPrinter(language.English)
	}

	return message.NewPrinter(supported[idx])
}

func init() {
	for key, msg := range chinese {
		// Only fails on invalid tags.
		_ = message.SetString(language.SimplifiedChinese, key, msg)
	}
}

var chinese = map[string]string{
	// Task names.
	"pop reward":        "弹出任务",
	"sign-in":           "签到",
	"scheduled claim":   "定时领水",
	"promo entry":       "通过“免费水果”访问农场",
	"ad browsing":       "浏览任务",
	"water rain":        "收集水滴雨",
	"water two friends": "为两位好友浇水",
	"clock-in sign":     "签到领水->签到",
	"clock-in follow":   "签到领水->关注",
	"duck":              "点鸭子",
	"double card":       "水滴翻倍卡",
	"fast card":         "快速浇水卡",
	"sign card":         "加签卡",
	"bean card":         "水滴换豆卡",
	"first water":       "首次浇水",
	"ten waters":        "十次浇水",
	"stage reward":      "浇水阶段性奖励",

	// Run data.
	"farm":          "农场",
	"task list":     "任务列表",
	"backpack":      "背包",
	"clock-in page": "签到领水",

	// Reports.
	"prize %q (level %d): %dg drops left, %dg applied, %dg still needed":     "奖品《%[1]s》(等级 %[2]d): 剩余水滴 %[3]dg, 已浇水滴 %[4]dg, 还需浇水 %[5]dg",
	"backpack: %d double cards, %d fast cards, %d sign cards, %d bean cards": "背包: 水滴翻倍卡 %[1]d, 快速浇水卡 %[2]d, 加签卡 %[3]d, 水滴换豆卡 %[4]d",

	// Generic outcomes.
	"%s: done today":                        "%s: 今日已完成",
	"%s: got %dg drops":                     "%s: 获得水滴 %dg",
	"%s: failed, %s":                        "%s: 失败, %s",
	"%s: disabled":                          "%s: 已停用",
	"%s: retired on the server, skipped":    "%s: 服务端已下线, 跳过",
	"%s: quota already met":                 "%s: 今日次数已满",
	"%s: nothing pending":                   "%s: 没有待完成的任务",
	"%s: %d done, %d failed, got %dg drops": "%s: 完成 %d 个, 失败 %d 个, 获得水滴 %dg",
	"%s: skipped, %s not available":         "%s: 跳过, 缺少%s",
	"run cancelled, %s":                     "运行已取消, %s",

	// Watering.
	"watered the tree, %dg drops left":                  "成功浇水一次, 剩余水滴 %dg",
	"could not water the tree: %s":                      "浇水失败: %s",
	"%s: the tree could not be watered, reward pending": "%s: 浇水失败, 未领取奖励",
	"%s: watered %d of %d times":                        "%s: 已浇水 %d/%d 次",

	// Ads.
	"%s: ad %q already completed today":      "%s: 今日已完成《%s》",
	"%s: watching ad %q, waiting %d seconds": "%s: 正在进行《%s》, 等待 %d 秒",
	"%s: ad %q got %dg drops":                "%s: 《%s》成功, 获得水滴 %dg",
	"%s: ad %q failed":                       "%s: 《%s》失败",

	// Water rain.
	"%s: round %d not due yet, next at %s": "%s: 第 %d 次未到时间, 下次 %s",
	"%s: round %d got %dg drops":           "%s: 第 %d 次成功, 获得水滴 %dg",
	"%s: round %d failed":                  "%s: 第 %d 次失败",

	// Friends.
	"%s: could not fetch friends: %s": "%s: 获取好友列表失败: %s",
	"%s: watered friend %s":           "%s: 为好友 %s 浇水",
	"%s: could not water friend %s":   "%s: 为好友 %s 浇水失败",

	// Clock-in and follow tasks.
	"%s: signed":                       "%s: 签到成功",
	"used a %s":                        "使用%s成功",
	"could not use a %s":               "使用%s失败",
	"%s: followed %q":                  "%s: 关注《%s》",
	"%s: %q got %dg drops":             "%s: 《%s》获得水滴 %dg",
	"%s: %q reward failed":             "%s: 《%s》领取奖励失败",
	"%s: not enough drops or cards":    "%s: 水滴或道具卡不足",
	"%s: could not check the backpack": "%s: 无法获取背包信息",

	// Duck.
	"%s: attempt %d succeeded, %s": "%s: 第 %d 次成功, %s",
	"%s: attempt %d failed, %s":    "%s: 第 %d 次失败, %s",
	"%s: daily limit reached":      "%s: 今日次数已达上限",

	// Scheduled claim.
	"%s: outside the claim window, trying anyway": "%s: 当前时间不在领取时间范围内, 仍然尝试",
}
