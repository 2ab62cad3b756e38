package dto

// BookForm 新增/编辑图书请求
// validator tag说明:
// - required + notblank: 必填且不能全是空白
// - max: 与表字段长度一致
// - status只在编辑时有效，新增的图书一律为草稿
type BookForm struct {
	Title            string `json:"title" binding:"required,notblank,max=100" example:"Dune"`
	Author           string `json:"author" binding:"required,notblank,max=100" example:"Frank Herbert"`
	ShortDescription string `json:"short_description" binding:"max=500" example:"沙丘星球上的权力斗争"`
	FullDescription  string `json:"full_description" binding:"required,notblank" example:"厄拉科斯星球是宇宙中唯一出产香料的地方..."`
	Image            string `json:"image" binding:"required,notblank,max=255" example:"covers/dune.jpg"`
	CategoryID       uint   `json:"category_id" binding:"required" example:"1"`
	Status           string `json:"status" binding:"omitempty,oneof=draft published" example:"published"`
}

// DeleteConfirmRequest 确认删除请求
type DeleteConfirmRequest struct {
	Confirm bool `json:"confirm" form:"confirm" example:"true"`
}

// PageQuery 可选分页参数(不传page_size时返回全部)
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}

// SearchQuery 搜索参数
type SearchQuery struct {
	Q string `form:"q" binding:"max=100" example:"dune"`
	PageQuery
}

// LikeQuery 点赞请求的查询参数(跳回搜索页时保留关键词)
type LikeQuery struct {
	Q string `form:"q" binding:"max=100" example:"dune"`
}

// CategoryRequest 创建分类请求
type CategoryRequest struct {
	Name string `json:"name" binding:"required,notblank,max=100" example:"Science Fiction"`
}

// ContactRequest 联系我们
type ContactRequest struct {
	Name    string `json:"name" binding:"required,notblank,max=100" example:"张三"`
	Email   string `json:"email" binding:"required,email" example:"zhangsan@example.com"`
	Message string `json:"message" binding:"required,notblank,max=2000" example:"希望增加按出版年份排序"`
}
