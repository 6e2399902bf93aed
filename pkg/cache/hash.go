package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// docPrefix is how many hex chars of the document hash appear in keys.
const docPrefix = 12

// Hash identifies a map document by content. CRLF line endings are
// normalized first, so a document saved on Windows keys the same entries.
func Hash(doc []byte) string {
	sum := sha256.Sum256(bytes.ReplaceAll(doc, []byte("\r\n"), []byte("\n")))
	return hex.EncodeToString(sum[:])
}

// hashKey builds "keyType:doc:opts". doc is a prefix of the document hash,
// so every entry of one document shares a key prefix; opts hashes the
// JSON encoding of the key options.
func hashKey(keyType, docHash string, opts any) string {
	data, _ := json.Marshal(opts)
	sum := sha256.Sum256(data)
	if len(docHash) > docPrefix {
		docHash = docHash[:docPrefix]
	}
	return keyType + ":" + docHash + ":" + hex.EncodeToString(sum[:16])
}
