package tracker

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ErrNotNFTRecord marks account data that is not an NftRecord. Many
// unrelated accounts live under the same program, so this is expected.
var ErrNotNFTRecord = errors.New("not an nft record account")

var (
	nftRecordDiscriminator        = anchorDiscriminator("NftRecord")
	collectionConfigDiscriminator = anchorDiscriminator("CollectionConfig")
)

// anchorDiscriminator is the 8-byte account tag Anchor derives from the
// account type name.
func anchorDiscriminator(name string) []byte {
	sum := sha256.Sum256([]byte("account:" + name))
	return sum[:8]
}

// NFTRecord is the launchpad's per-mint account.
// Layout after the discriminator: three pubkeys, then little-endian scalars.
type NFTRecord struct {
	CollectionConfig solana.PublicKey
	NFTMint          solana.PublicKey
	Owner            solana.PublicKey
	MintIndex        uint64
	RarityTier       uint8
	RarityMultiplier uint16
	TokensClaimed    bool
	IsStaked         bool
}

const nftRecordSize = 8 + 32*3 + 8 + 1 + 2 + 1 + 1

// DecodeNFTRecord parses raw account data into an NFTRecord. Data that does
// not carry the NftRecord discriminator or is too short yields
// ErrNotNFTRecord.
func DecodeNFTRecord(data []byte) (*NFTRecord, error) {
	if len(data) < nftRecordSize || !bytes.Equal(data[:8], nftRecordDiscriminator) {
		return nil, ErrNotNFTRecord
	}

	rec := &NFTRecord{}
	copy(rec.CollectionConfig[:], data[8:40])
	copy(rec.NFTMint[:], data[40:72])
	copy(rec.Owner[:], data[72:104])
	rec.MintIndex = binary.LittleEndian.Uint64(data[104:112])
	rec.RarityTier = data[112]
	rec.RarityMultiplier = binary.LittleEndian.Uint16(data[113:115])
	rec.TokensClaimed = data[115] != 0
	rec.IsStaked = data[116] != 0

	return rec, nil
}

// DecodeCollectionName extracts the collection name from a CollectionConfig
// account: discriminator, authority pubkey, then a length-prefixed string.
func DecodeCollectionName(data []byte) (string, error) {
	const header = 8 + 32
	if len(data) < header+4 || !bytes.Equal(data[:8], collectionConfigDiscriminator) {
		return "", fmt.Errorf("not a collection config account")
	}

	nameLen := binary.LittleEndian.Uint32(data[header : header+4])
	start := header + 4
	if nameLen == 0 || start+int(nameLen) > len(data) {
		return "", fmt.Errorf("malformed collection name")
	}

	return string(data[start : start+int(nameLen)]), nil
}
