// Package encrypt 提供内置列级加密算法。
package encrypt

import (
	"bytes"
	"crypto/aes"
	"crypto/sha1"
	"encoding/base64"

	"github.com/ceyewan/shardmeta/xerrors"
)

// PropAESKeyValue AES 密钥 property，AES 必填
const PropAESKeyValue = "aes.key.value"

var (
	// ErrInvalidKey aes.key.value 缺失（初始化阶段）
	ErrInvalidKey = xerrors.New("encrypt: invalid aes key")

	// ErrInvalidCipher 密文格式非法（解密阶段）
	ErrInvalidCipher = xerrors.New("encrypt: invalid cipher value")
)

// AES 可逆加密算法
//
// 密钥取 aes.key.value 的 SHA-1 摘要前 16 字节，
// ECB 分组 + PKCS7 填充，密文以 base64 渲染。
type AES struct {
	key []byte
}

// NewAES 创建 AES 加密算法
func NewAES() *AES {
	return &AES{}
}

// Type 实现 algorithm.Algorithm
func (a *AES) Type() string {
	return "AES"
}

// Init 从 properties 派生密钥
func (a *AES) Init(props map[string]string) error {
	raw, ok := props[PropAESKeyValue]
	if !ok || raw == "" {
		return xerrors.WithCode(ErrInvalidKey, "aes_key_value_required")
	}
	digest := sha1.Sum([]byte(raw))
	a.key = digest[:16]
	return nil
}

// Encrypt 实现 algorithm.EncryptAlgorithm
func (a *AES) Encrypt(plainValue string) (string, error) {
	block, err := aes.NewCipher(a.key)
	if err != nil {
		return "", xerrors.Wrap(err, "create cipher")
	}
	padded := pkcs7Pad([]byte(plainValue), block.BlockSize())
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += block.BlockSize() {
		block.Encrypt(out[i:], padded[i:])
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt 实现 algorithm.EncryptAlgorithm
func (a *AES) Decrypt(cipherValue string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(cipherValue)
	if err != nil {
		return "", xerrors.Wrap(ErrInvalidCipher, "not base64")
	}
	block, err := aes.NewCipher(a.key)
	if err != nil {
		return "", xerrors.Wrap(err, "create cipher")
	}
	if len(raw) == 0 || len(raw)%block.BlockSize() != 0 {
		return "", xerrors.Wrap(ErrInvalidCipher, "bad block length")
	}
	out := make([]byte, len(raw))
	for i := 0; i < len(raw); i += block.BlockSize() {
		block.Decrypt(out[i:], raw[i:])
	}
	return string(pkcs7Unpad(out)), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > len(data) {
		return data
	}
	return data[:len(data)-padding]
}
