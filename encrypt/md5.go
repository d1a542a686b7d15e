package encrypt

import (
	"crypto/md5"
	"encoding/hex"
)

// MD5 不可逆加密算法
//
// Decrypt 原样返回密文：摘要算法不支持还原明文。
type MD5 struct{}

// NewMD5 创建 MD5 加密算法
func NewMD5() *MD5 {
	return &MD5{}
}

// Type 实现 algorithm.Algorithm
func (m *MD5) Type() string {
	return "MD5"
}

// Init MD5 不识别任何 properties
func (m *MD5) Init(props map[string]string) error {
	return nil
}

// Encrypt 实现 algorithm.EncryptAlgorithm
func (m *MD5) Encrypt(plainValue string) (string, error) {
	digest := md5.Sum([]byte(plainValue))
	return hex.EncodeToString(digest[:]), nil
}

// Decrypt 实现 algorithm.EncryptAlgorithm
func (m *MD5) Decrypt(cipherValue string) (string, error) {
	return cipherValue, nil
}
