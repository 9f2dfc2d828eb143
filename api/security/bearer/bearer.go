package bearer

import (
	"encoding/json"
	"esxi-stats/api/e"
	"esxi-stats/app/utils"
	"esxi-stats/vsphere"
	"fmt"
)

const Type = "bearer"

type Token struct {
}

// Generate encrypts the endpoint and user. The password is dropped.
func (t Token) Generate(a vsphere.Auth) (string, error) {
	a.Password = ""
	b, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return utils.AesEncrypt(string(b)), nil
}

func (t Token) Parse(token string) (*vsphere.Auth, error) {
	var a vsphere.Auth
	deToken := utils.AesDecrypt(token)
	err := json.Unmarshal([]byte(deToken), &a)
	if err != nil || a.Username == "" {
		return nil, fmt.Errorf(e.TokenInvalid)
	}
	return &a, nil
}

func (t Token) Type() string {
	return Type
}
