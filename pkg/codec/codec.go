package codec

// Encodable 由各记录 / 联合类型实现，按固定字段顺序写入
type Encodable interface {
	EncodeTo(e *Encoder)
}

// Decodable 读取失败时返回 Decoder 记录的第一个结构错误
type Decodable interface {
	DecodeFrom(d *Decoder) error
}

// Marshal 编码单个值
func Marshal(v Encodable) ([]byte, error) {
	e := NewEncoder(256)
	v.EncodeTo(e)
	return e.Bytes()
}

// Unmarshal 从 data 开头解码；账户空间可能大于实际布局，末尾多余字节不视为错误
func Unmarshal(data []byte, v Decodable) error {
	d := NewDecoder(data)
	if err := v.DecodeFrom(d); err != nil {
		return err
	}
	return d.Err()
}
