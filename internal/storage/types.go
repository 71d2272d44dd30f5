package storage

import (
	"encoding"

	"github.com/vmihailenco/msgpack/v5"
)

type Storeable interface {
	Key() []byte
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// DBIdentity is the persisted form of the authenticated user's profile.
type DBIdentity struct {
	ID             string   `msgpack:"id"`
	Username       string   `msgpack:"username"`
	Email          string   `msgpack:"email"`
	FullName       string   `msgpack:"fullName"`
	Bio            string   `msgpack:"bio"`
	ProfilePicture string   `msgpack:"profilePicture"`
	Friends        []string `msgpack:"friends"`
	Following      []string `msgpack:"following"`
	Followers      []string `msgpack:"followers"`
}

func (i *DBIdentity) Key() []byte {
	return keyIdentity
}

func (i *DBIdentity) MarshalBinary() (data []byte, err error) {
	type alias DBIdentity
	return msgpack.Marshal((*alias)(i))
}

func (i *DBIdentity) UnmarshalBinary(data []byte) error {
	type alias DBIdentity
	return msgpack.Unmarshal(data, (*alias)(i))
}

// DBCredential wraps the sealed bearer token together with the id of the
// key that sealed it, so a rotated key file invalidates the record cleanly.
type DBCredential struct {
	KeyID  string `msgpack:"keyId"`
	Sealed []byte `msgpack:"sealed"`
}

func (c *DBCredential) Key() []byte {
	return keyCredential
}

func (c *DBCredential) MarshalBinary() (data []byte, err error) {
	type alias DBCredential
	return msgpack.Marshal((*alias)(c))
}

func (c *DBCredential) UnmarshalBinary(data []byte) error {
	type alias DBCredential
	return msgpack.Unmarshal(data, (*alias)(c))
}
