package errx

// 系统类错误码：IO、内部不可预期错误。
const (
	CodeInternal Code = "INTERNAL_ERROR"
	CodeIO       Code = "IO_ERROR"
)

// 业务类错误码：解析/生成失败，原样返回给调用方。
const (
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeNotFound         Code = "NOT_FOUND"
	CodeParse            Code = "PARSE_FAILED"
	CodeStructure        Code = "STRUCTURE_NOT_FOUND"
	CodeUnsupportedValue Code = "UNSUPPORTED_VALUE"
	CodeFragmentOverlap  Code = "FRAGMENT_OVERLAP"
	CodeFragmentRange    Code = "FRAGMENT_RANGE"
	CodeStaleView        Code = "STALE_VIEW"
	CodeUnknownStructure Code = "UNKNOWN_PROJECT_STRUCTURE"
)

// 哨兵错误（通过 WithData/WithCause 派生新对象）。
var (
	ErrInternal = NewSys(CodeInternal, "内部错误")
	ErrIO       = NewSys(CodeIO, "文件读写失败")

	ErrInvalidArgument  = NewBiz(CodeInvalidArgument, "参数错误")
	ErrNotFound         = NewBiz(CodeNotFound, "未找到")
	ErrParse            = NewBiz(CodeParse, "源码解析失败")
	ErrNoClass          = NewBiz(CodeStructure, "文件中没有类声明")
	ErrUnsupportedValue = NewBiz(CodeUnsupportedValue, "不支持的值表达式")
	ErrFragmentOverlap  = NewBiz(CodeFragmentOverlap, "替换片段区间重叠")
	ErrFragmentRange    = NewBiz(CodeFragmentRange, "替换片段越界")
	ErrStaleView        = NewBiz(CodeStaleView, "语法视图已过期")
	ErrUnknownStructure = NewBiz(CodeUnknownStructure, "无法识别项目结构")
)
