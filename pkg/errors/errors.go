package errors

import "errors"

// 与具体存储无关的数据访问错误，各存储实现需将原生错误映射到这里

// ErrNotFound 文档不存在
var ErrNotFound = errors.New("文档不存在")

// ErrMalformedDocument 文档存在但无法反序列化
var ErrMalformedDocument = errors.New("文档格式错误")
