package listings

import "fmt"

// ValidationError 调用方参数不合法；在任何网络调用之前返回，且不被包装
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// 工作流名称，同时用作指标标签
const (
	OpCreateStore      = "create store"
	OpCreateCollection = "create collection"
	OpCreateSingle     = "create single edition"
	OpBuySingle        = "buy single edition"
)

// 工作流阶段
const (
	StageDerive   = "derive addresses"
	StageFetch    = "fetch account"
	StageProbe    = "probe collection authority"
	StageRent     = "query rent"
	StageReserve  = "reserve upload session"
	StageUpload   = "upload asset"
	StageBuild    = "build instructions"
	StageSubmit   = "submit transaction"
	StageFinalize = "finalize upload"
)

// WorkflowError 非校验类失败，在工作流边界包装一次，保留原因
type WorkflowError struct {
	Op    string
	Stage string
	Err   error

	// Signature 交易已发送时的签名；确认超时时调用方据此重新探测
	Signature string
}

func (e *WorkflowError) Error() string {
	if e.Signature != "" {
		return fmt.Sprintf("failed to %s: %s (signature %s): %v", e.Op, e.Stage, e.Signature, e.Err)
	}
	return fmt.Sprintf("failed to %s: %s: %v", e.Op, e.Stage, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func wrap(op, stage string, err error) error {
	return &WorkflowError{Op: op, Stage: stage, Err: err}
}

// wrapSubmit 提交失败时带上已知的签名
func wrapSubmit(op, sig string, err error) error {
	return &WorkflowError{Op: op, Stage: StageSubmit, Err: err, Signature: sig}
}
