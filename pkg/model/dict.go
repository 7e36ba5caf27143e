package model

// DictType 字典类型
type DictType struct {
	ID         int64  `json:"id"`
	DictName   string `json:"dictName"`
	DictType   string `json:"dictType"`
	Status     int    `json:"status"`
	Remark     string `json:"remark,omitempty"`
	CreateTime string `json:"createTime,omitempty"`
	UpdateTime string `json:"updateTime,omitempty"`
}

// DictData 字典数据
type DictData struct {
	ID         int64  `json:"id"`
	DictType   string `json:"dictType"`
	DictLabel  string `json:"dictLabel"`
	DictValue  string `json:"dictValue"`
	DictSort   int    `json:"dictSort"`
	CSSClass   string `json:"cssClass,omitempty"`
	ListClass  string `json:"listClass,omitempty"`
	IsDefault  int    `json:"isDefault"`
	Status     int    `json:"status"`
	Remark     string `json:"remark,omitempty"`
	CreateTime string `json:"createTime,omitempty"`
	UpdateTime string `json:"updateTime,omitempty"`
}

// DictTypeQuery 字典类型查询条件
type DictTypeQuery struct {
	PageNum  int
	PageSize int
	DictName string
	DictType string
}

// DictDataQuery 字典数据查询条件
type DictDataQuery struct {
	PageNum   int
	PageSize  int
	DictType  string
	DictLabel string
}
