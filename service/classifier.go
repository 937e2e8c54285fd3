package service

// Mode 分类模式
type Mode int

const (
	// ModeFallback 纯颜色规则分类，主体由肤色/衣物规则判定
	ModeFallback Mode = iota
	// ModeRefinement 主体已由分割模型锁定，规则只区分背景类别
	ModeRefinement
)

// rule 一条分类规则。规则按序求值，首个命中生效，全不命中归入other。
type rule struct {
	category Category
	match    func(r, g, b uint8) bool
}

// RuleBasedClassifier 基于颜色规则的逐像素分类器。
// 规则只读像素自身的通道值，不依赖邻域，可以安全并行。
type RuleBasedClassifier struct {
	rules []rule
}

func NewRuleBasedClassifier() *RuleBasedClassifier {
	return &RuleBasedClassifier{
		rules: []rule{
			{CategorySubject, subjectLike},
			{CategorySky, skyLike},
			{CategoryGround, groundLike},
		},
	}
}

// ClassifyPixel 对单个像素分类。
// 细分模式下跳过主体规则，主体与否由上游模型决定。
func (c *RuleBasedClassifier) ClassifyPixel(r, g, b uint8, mode Mode) Category {
	rules := c.rules
	if mode == ModeRefinement {
		rules = rules[1:]
	}
	for _, ru := range rules {
		if ru.match(r, g, b) {
			return ru.category
		}
	}
	return CategoryOther
}

// Classify 对整幅图像做降级模式分类
func (c *RuleBasedClassifier) Classify(img *RGBImage) *Segmentation {
	seg := NewSegmentation(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b := img.RGB(x, y)
			seg.Assign(x, y, c.ClassifyPixel(r, g, b, ModeFallback))
		}
	}
	return seg
}

// 肤色：偏红且明亮
func skinTone(r, g, b uint8) bool {
	return r > 150 && g > 100 && b > 80 && r > g && r > b
}

// 衣物颜色：中等亮度且不属于任何明显的背景色系
func clothingColor(r, g, b uint8) bool {
	br := Brightness(r, g, b)
	return br > 80 && br < 220 &&
		!blueDominant(r, g, b) &&
		!greenDominant(r, g, b) &&
		!brownish(r, g, b)
}

func subjectLike(r, g, b uint8) bool {
	return skinTone(r, g, b) || clothingColor(r, g, b)
}

// 天空：明亮、偏蓝、通道差异小。阈值刻意宽松，宁可多判不可漏判。
func skyLike(r, g, b uint8) bool {
	return Brightness(r, g, b) > 80 &&
		b > 80 &&
		(b >= r || b >= g) &&
		(int(b) > int(r)+5 || int(b) > int(g)+5) &&
		Saturation(r, g, b) < 180
}

// 地面：草地或泥土色系。蓝色必须低，这是与天空的关键分界。
func groundLike(r, g, b uint8) bool {
	if skyLike(r, g, b) {
		return false
	}
	if b >= 90 {
		return false
	}
	br := Brightness(r, g, b)
	switch {
	case greenDominant(r, g, b) && g > 100 && br < 230:
		return true // 草地
	case brownish(r, g, b) && br < 200:
		return true // 土路
	case g > 90 && r > 70 && b < 80 && br < 210 && b < r && b < g:
		return true // 大地色
	case r > 80 && g > 70 && b < 70 && br < 190:
		return true // 深大地色
	}
	return false
}

func greenDominant(r, g, b uint8) bool {
	return int(g) > int(r)+20 && int(g) > int(b)+20
}

func blueDominant(r, g, b uint8) bool {
	return int(b) > int(r)+20 && int(b) > int(g)+20
}

func brownish(r, g, b uint8) bool {
	diff := int(r) - int(g)
	if diff < 0 {
		diff = -diff
	}
	return r > 100 && g > 80 && b < 100 && diff < 30
}
