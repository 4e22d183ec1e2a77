// Package synthetic generates the hand-authored cold-start datasets for
// the lifestyle extractor and the budget predictor. No real history
// exists when the app is first installed, so both networks bootstrap from
// these rules and are refined later by user feedback.
package synthetic

import (
	"math/rand"
	"strings"

	"github.com/vimoney/vimoney/internal/model"
)

// LifestyleExample is one generated (phrase, target) pair for the
// lifestyle extractor. Target is the 16-dim encoded signal vector.
type LifestyleExample struct {
	Text   string
	Target []float64
}

// DefaultLifestyleExamples is the generated dataset size for cold start.
const DefaultLifestyleExamples = 700

var (
	rentPhrases = []string{
		"thuê nhà", "ở trọ", "thuê chung cư", "trả tiền thuê nhà hàng tháng", "đang thuê phòng trọ",
	}
	noRentPhrases = []string{
		"ở nhà bố mẹ", "có nhà riêng", "không phải thuê nhà",
	}
	debtPhrases = []string{
		"đang trả nợ", "nợ ngân hàng", "trả góp điện thoại", "vay tiền mua xe", "còn khoản vay phải trả",
	}
	savingsPhrases = []string{
		"muốn tiết kiệm", "để dành tiền mua nhà", "có mục tiêu tiết kiệm", "tích lũy cho tương lai", "muốn để dành một khoản",
	}
	minimalPhrases = []string{
		"sống tối giản", "chi tiêu đơn giản", "ít mua sắm", "không tiêu xài nhiều",
	}
	foodPhrases = map[model.Level][]string{
		model.LevelLow:    {"tự nấu ăn ở nhà", "ít khi ăn ngoài", "mang cơm đi làm"},
		model.LevelMedium: {"thỉnh thoảng ăn ngoài", "cuối tuần đi ăn tiệm", "ăn ngoài vài lần một tuần"},
		model.LevelHigh:   {"ăn ngoài thường xuyên", "ngày nào cũng ăn quán", "hay đặt đồ ăn về"},
	}
	socialPhrases = map[model.Level][]string{
		model.LevelLow:    {"ít đi chơi", "không hay tụ tập", "thích ở nhà"},
		model.LevelMedium: {"thỉnh thoảng cà phê với bạn", "đi chơi cuối tuần", "gặp bạn bè mỗi tuần một lần"},
		model.LevelHigh:   {"hay đi nhậu với bạn bè", "tụ tập liên tục", "tuần nào cũng đi chơi vài buổi"},
	}
	luxuryPhrases = map[model.Level][]string{
		model.LevelLow:    {"không quan tâm hàng hiệu", "xài đồ bình dân", "không mê đồ đắt tiền"},
		model.LevelMedium: {"thích đồ đẹp nhưng cân nhắc", "thỉnh thoảng tự thưởng", "mua đồ tốt khi giảm giá"},
		model.LevelHigh:   {"mê hàng hiệu", "thích mua đồ công nghệ mới", "hay mua sắm đồ xịn"},
	}
	locationPhrases = map[model.Location][]string{
		model.LocationHanoi: {"sống ở hà nội", "làm việc tại hà nội", "ở thủ đô"},
		model.LocationHCM:   {"sống ở sài gòn", "ở tp hcm", "làm việc tại thành phố hồ chí minh"},
		model.LocationOther: {"ở đà nẵng", "sống ở quê", "làm việc ở tỉnh"},
	}

	levels    = []model.Level{model.LevelLow, model.LevelMedium, model.LevelHigh}
	locations = []model.Location{model.LocationHanoi, model.LocationHCM, model.LocationOther}
)

// GenerateLifestyle produces n labeled phrases by combining rent, debt,
// savings, and habit fragments. The same seed always yields the same
// dataset, so cold-start training is reproducible.
func GenerateLifestyle(n int, seed int64) []LifestyleExample {
	if n <= 0 {
		n = DefaultLifestyleExamples
	}
	rng := rand.New(rand.NewSource(seed))
	examples := make([]LifestyleExample, 0, n)

	for i := 0; i < n; i++ {
		signals := model.LifestyleSignals{
			HasRent:          rng.Intn(2) == 0,
			HasDebt:          rng.Intn(3) == 0,
			HasSavingsGoal:   rng.Intn(2) == 0,
			MinimalLiving:    rng.Intn(4) == 0,
			FoodOutFrequency: levels[rng.Intn(len(levels))],
			SocialSpending:   levels[rng.Intn(len(levels))],
			LuxuryInterest:   levels[rng.Intn(len(levels))],
			Location:         locations[rng.Intn(len(locations))],
		}

		var parts []string
		if signals.HasRent {
			parts = append(parts, pick(rng, rentPhrases))
		} else if rng.Intn(2) == 0 {
			parts = append(parts, pick(rng, noRentPhrases))
		}
		if signals.HasDebt {
			parts = append(parts, pick(rng, debtPhrases))
		}
		if signals.HasSavingsGoal {
			parts = append(parts, pick(rng, savingsPhrases))
		}
		if signals.MinimalLiving {
			parts = append(parts, pick(rng, minimalPhrases))
		}
		parts = append(parts, pick(rng, foodPhrases[signals.FoodOutFrequency]))
		parts = append(parts, pick(rng, socialPhrases[signals.SocialSpending]))
		parts = append(parts, pick(rng, luxuryPhrases[signals.LuxuryInterest]))
		parts = append(parts, pick(rng, locationPhrases[signals.Location]))

		examples = append(examples, LifestyleExample{
			Text:   strings.Join(parts, ", "),
			Target: signals.Encode(),
		})
	}

	return examples
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}
