package service

// Category 像素所属的语义类别
type Category uint8

const (
	CategorySubject Category = iota // 前景主体
	CategorySky                     // 天空
	CategoryGround                  // 地面
	CategoryOther                   // 其他背景
)

func (c Category) String() string {
	switch c {
	case CategorySubject:
		return "subject"
	case CategorySky:
		return "sky"
	case CategoryGround:
		return "ground"
	case CategoryOther:
		return "other"
	}
	return "unknown"
}

// Mask 与原图等尺寸的布尔掩码
type Mask struct {
	Width  int
	Height int
	bits   []bool
}

func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		bits:   make([]bool, width*height),
	}
}

func (m *Mask) At(x, y int) bool {
	return m.bits[y*m.Width+x]
}

func (m *Mask) Set(x, y int, v bool) {
	m.bits[y*m.Width+x] = v
}

// Count 掩码中为真的像素数
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Segmentation 一次分类的完整结果：四类掩码互斥且覆盖全图。
// 互斥性由规则求值顺序保证，不做事后校正。
type Segmentation struct {
	Width   int
	Height  int
	Subject *Mask
	Sky     *Mask
	Ground  *Mask
	Other   *Mask
}

func NewSegmentation(width, height int) *Segmentation {
	return &Segmentation{
		Width:   width,
		Height:  height,
		Subject: NewMask(width, height),
		Sky:     NewMask(width, height),
		Ground:  NewMask(width, height),
		Other:   NewMask(width, height),
	}
}

// Assign 把像素记入指定类别的掩码
func (s *Segmentation) Assign(x, y int, cat Category) {
	s.Mask(cat).Set(x, y, true)
}

// Mask 返回指定类别的掩码
func (s *Segmentation) Mask(cat Category) *Mask {
	switch cat {
	case CategorySubject:
		return s.Subject
	case CategorySky:
		return s.Sky
	case CategoryGround:
		return s.Ground
	default:
		return s.Other
	}
}
