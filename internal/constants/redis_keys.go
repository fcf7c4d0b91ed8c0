package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// ParseModulePrefix 解析模块
	ParseModulePrefix = "parse"
	// SubmissionModulePrefix 异步提交模块
	SubmissionModulePrefix = "submission"

	// EntityResult 解析结果实体
	EntityResult = "result"
	// EntityStatus 状态实体
	EntityStatus = "status"

	// KeyParseResult 按内容MD5缓存的解析结果 (STRING, JSON)
	// 格式: app:parse:result:{md5}
	KeyParseResult = AppPrefix + ":" + ParseModulePrefix + ":" + EntityResult + ":%s"

	// KeySubmissionStatus 异步提交的最新状态 (STRING)
	// 格式: app:submission:status:{submissionID}
	KeySubmissionStatus = AppPrefix + ":" + SubmissionModulePrefix + ":" + EntityStatus + ":%s"
)
