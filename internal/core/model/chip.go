package model

// ChipType groups chips for styling
type ChipType string

const (
	ChipTypeNone ChipType = "none"
	ChipTypeWarn ChipType = "warn"
	ChipTypeGPU  ChipType = "gpu"
	ChipTypeHWC  ChipType = "hwc"
)

// Chip is a short descriptive tag attached to a tree node
type Chip struct {
	Short string   `json:"short"`
	Long  string   `json:"long"`
	Type  ChipType `json:"type"`
}

var (
	VisibleChip         = Chip{Short: "V", Long: "visible", Type: ChipTypeNone}
	RelativeZChip       = Chip{Short: "RelZ", Long: "Is relative Z-ordered to another surface", Type: ChipTypeWarn}
	RelativeZParentChip = Chip{Short: "RelZParent", Long: "Something is relative Z-ordered to this surface", Type: ChipTypeWarn}
	MissingZParentChip  = Chip{Short: "MissingZParent", Long: "Is relative Z-ordered to a surface that is not in this entry", Type: ChipTypeWarn}
	GPUChip             = Chip{Short: "GPU", Long: "This layer was composed on the GPU", Type: ChipTypeGPU}
	HWCChip             = Chip{Short: "HWC", Long: "This layer was composed by Hardware Composer", Type: ChipTypeHWC}
)
