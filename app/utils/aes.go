package utils

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"esxi-stats/app/logging"
)

var (
	key = []byte("3f1e9a07c5b2d864")
)

// SetKey overrides the token cipher key. It must be 16, 24 or 32 bytes.
func SetKey(k string) {
	if k != "" {
		key = []byte(k)
	}
}

func AesEncrypt(plaintext string) string {
	block, err := aes.NewCipher(key)
	if err != nil {
		logging.L().Error("", errors.New("encrypt failed: invalid key"))
		return ""
	}

	var b = []byte(plaintext)

	blockSize := block.BlockSize()
	b = PKCS5Padding(b, blockSize)
	blockMode := cipher.NewCBCEncrypter(block, key[:aes.BlockSize])

	ciphertext := make([]byte, len(b))
	blockMode.CryptBlocks(ciphertext, b)

	return base64.StdEncoding.EncodeToString(ciphertext)
}

func AesDecrypt(ciphertext string) string {
	block, err := aes.NewCipher(key)
	if err != nil {
		logging.L().Error("", errors.New("decrypt failed: invalid key"))
		return ""
	}

	b, _ := base64.StdEncoding.DecodeString(ciphertext)
	blockSize := block.BlockSize()

	if len(b) < blockSize {
		logging.L().Error("", errors.New("decrypt failed: invalid ciphertext"))
		return ""
	}

	if len(b)%blockSize != 0 {
		logging.L().Error("", errors.New("decrypt failed: invalid ciphertext"))
		return ""
	}

	blockModel := cipher.NewCBCDecrypter(block, key[:aes.BlockSize])

	plaintext := make([]byte, len(b))
	blockModel.CryptBlocks(plaintext, b)
	plaintext = PKCS5UnPadding(plaintext)

	return string(plaintext)
}

func PKCS5Padding(src []byte, blockSize int) []byte {
	padding := blockSize - len(src)%blockSize
	padtext := bytes.Repeat([]byte{byte(padding)}, padding)
	return append(src, padtext...)
}

func PKCS5UnPadding(src []byte) []byte {
	length := len(src)
	unpadding := int(src[length-1])
	if unpadding > length {
		return nil
	}
	return src[:(length - unpadding)]
}
