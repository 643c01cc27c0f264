// Package nlu 规则式对话理解：语言检测、意图识别、实体抽取。
// 全部为确定性的数据驱动模式表，无外部模型调用。
package nlu

// Language 支持的语言标签
type Language string

const (
	LanguageChinese Language = "zh"
	LanguageEnglish Language = "en"
)

// SupportedLanguages 返回支持的语言标签（当前为中英两种）
func SupportedLanguages() []Language {
	return []Language{LanguageChinese, LanguageEnglish}
}

// ValidLanguage 判断标签是否在支持集内
func ValidLanguage(l Language) bool {
	for _, s := range SupportedLanguages() {
		if s == l {
			return true
		}
	}
	return false
}

// Intent 意图枚举（固定集合 + 通用回退）
type Intent string

const (
	IntentInventory    Intent = "inventory_management"
	IntentProcurement  Intent = "procurement_management"
	IntentFinancial    Intent = "financial_analysis"
	IntentNotification Intent = "notification_management"
	IntentQuery        Intent = "query_information"
	IntentHelp         Intent = "help_request"
	IntentGeneral      Intent = "general_inquiry" // 通用回退
)

// DetectionResult 语言检测结果（每轮重算，不持久化）
type DetectionResult struct {
	Language   Language `json:"language"`
	Confidence float64  `json:"confidence"`
}

// IntentResult 意图识别结果
type IntentResult struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// 实体字段名。标量键保存单值；复数键在一句话命名多个条目时保存有序序列。
const (
	EntityItemName   = "item_name"
	EntityQuantity   = "quantity"
	EntityUnit       = "unit"
	EntityAction     = "action"
	EntityPlatform   = "platform"
	EntityItems      = "items"
	EntityQuantities = "quantities"
	EntityPlatforms  = "platforms"
)

// EntityResult 实体抽取结果
type EntityResult struct {
	Entities map[string]any `json:"entities"`
}

// NewEntityResult 创建空实体包
func NewEntityResult() EntityResult {
	return EntityResult{Entities: make(map[string]any)}
}

// Has 判断实体键是否存在（数量 0 也算存在）
func (r EntityResult) Has(key string) bool {
	if r.Entities == nil {
		return false
	}
	_, ok := r.Entities[key]
	return ok
}

// String 取字符串实体
func (r EntityResult) String(key string) (string, bool) {
	if r.Entities == nil {
		return "", false
	}
	v, ok := r.Entities[key].(string)
	return v, ok
}

// Number 取数值实体
func (r EntityResult) Number(key string) (float64, bool) {
	if r.Entities == nil {
		return 0, false
	}
	v, ok := r.Entities[key].(float64)
	return v, ok
}

// Strings 取字符串序列实体
func (r EntityResult) Strings(key string) ([]string, bool) {
	if r.Entities == nil {
		return nil, false
	}
	v, ok := r.Entities[key].([]string)
	return v, ok
}

// Numbers 取数值序列实体
func (r EntityResult) Numbers(key string) ([]float64, bool) {
	if r.Entities == nil {
		return nil, false
	}
	v, ok := r.Entities[key].([]float64)
	return v, ok
}
