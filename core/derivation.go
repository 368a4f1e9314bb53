package core

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
	bip32 "github.com/tyler-smith/go-bip32"
	bip39 "github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/ripemd160"
)

// Derivation derives deposit addresses for every chain family from a
// single seed acquired once at startup (§4.8). Grounded on the teacher's
// core/wallet.go HDWallet: the HMAC-SHA512 master-key split and hardened
// child derivation shape is kept, but ed25519-only derivation is replaced
// with secp256k1 BIP32 derivation for the EVM/UTXO families, since ed25519
// cannot address those chains.
type Derivation struct {
	masterKey *bip32.Key
}

// NewDerivation builds a Derivation service from a BIP-39 mnemonic and
// optional passphrase, as configured via MNEMONIC / WALLET_PASSPHRASE.
func NewDerivation(mnemonic, passphrase string) (*Derivation, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, NewError(KindValidation, "invalid mnemonic checksum")
	}
	seed := bip39.NewSeed(mnemonic, passphrase)
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, WrapError(KindValidation, "derive master key", err)
	}
	return &Derivation{masterKey: master}, nil
}

const hardenedOffset = bip32.FirstHardenedChild

// child derives a single hardened BIP32 child.
func child(k *bip32.Key, index uint32) (*bip32.Key, error) {
	return k.NewChildKey(hardenedOffset + index)
}

// path derives m/purpose'/coin'/account'/0/index for a secp256k1 BIP32 tree.
func (d *Derivation) path(purpose, coinType, account, index uint32) (*bip32.Key, error) {
	k, err := child(d.masterKey, purpose)
	if err != nil {
		return nil, err
	}
	if k, err = child(k, coinType); err != nil {
		return nil, err
	}
	if k, err = child(k, account); err != nil {
		return nil, err
	}
	// change level: external chain, non-hardened.
	if k, err = k.NewChildKey(0); err != nil {
		return nil, err
	}
	return k.NewChildKey(index)
}

// DeriveAddress resolves a deposit address for the given chain at
// (account, index). The chain family determines the derivation scheme
// (§4.8). Results are deterministic: identical inputs always yield the
// same address (P9).
func (d *Derivation) DeriveAddress(chainID string, account, index uint32) (string, error) {
	switch FamilyOf(chainID) {
	case FamilyEVM:
		return d.deriveEVM(account, index)
	case FamilyUTXO:
		return d.deriveUTXO(chainID, account, index)
	case FamilyCosmos:
		return d.deriveCosmos(chainID, account, index)
	case FamilySolana:
		return d.deriveSolana(account, index)
	default:
		return "", NewError(KindUnsupportedAssetChn, chainID)
	}
}

// deriveEVM implements m/44'/60'/account'/0/index, shared by every EVM
// chain (§4.8): all EVM chains resolve to one address per (account,index).
func (d *Derivation) deriveEVM(account, index uint32) (string, error) {
	k, err := d.path(44, 60, account, index)
	if err != nil {
		return "", WrapError(KindUnsupportedAssetChn, "evm derivation", err)
	}
	priv, err := crypto.ToECDSA(k.Key)
	if err != nil {
		return "", WrapError(KindUnsupportedAssetChn, "evm key", err)
	}
	addr := crypto.PubkeyToAddress(priv.PublicKey)
	return addr.Hex(), nil
}

// deriveUTXO implements the two UTXO path schemes: m/84'/c'/a'/0/i (native
// segwit) for BTC/LTC, m/44'/c'/a'/0/i (legacy) for DOGE/BCH.
func (d *Derivation) deriveUTXO(chainID string, account, index uint32) (string, error) {
	coinType, ok := slip44[chainID]
	if !ok {
		return "", NewError(KindUnsupportedAssetChn, chainID)
	}
	purpose := uint32(84)
	legacy := chainID == "bip122:1a2a2cbbdbeaa0c3e87f2d2dba13f9a7" || chainID == "bip122:1a91e3dace36e2be3bf030a65679fe82"
	if legacy {
		purpose = 44
	}
	k, err := d.path(purpose, coinType, account, index)
	if err != nil {
		return "", WrapError(KindUnsupportedAssetChn, "utxo derivation", err)
	}
	pub := k.PublicKey().Key
	h := hash160(pub)
	if legacy {
		return btcutil.Base58CheckEncode(h, 0x00), nil
	}
	hrp := "bc"
	if chainID == "bip122:12a765e31ffd4059bada1e25190f6e98" {
		hrp = "ltc"
	}
	conv, err := bech32.ConvertBits(h, 8, 5, true)
	if err != nil {
		return "", WrapError(KindUnsupportedAssetChn, "bech32 convert", err)
	}
	data := append([]byte{0x00}, conv...)
	enc, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", WrapError(KindUnsupportedAssetChn, "bech32 encode", err)
	}
	return enc, nil
}

// deriveCosmos implements the Cosmos SDK scheme: m/44'/118'/account'/0/index
// hashed the same way as a UTXO legacy address, bech32-encoded with the
// chain's own human-readable prefix.
func (d *Derivation) deriveCosmos(chainID string, account, index uint32) (string, error) {
	coinType, ok := slip44[chainID]
	if !ok {
		return "", NewError(KindUnsupportedAssetChn, chainID)
	}
	k, err := d.path(44, coinType, account, index)
	if err != nil {
		return "", WrapError(KindUnsupportedAssetChn, "cosmos derivation", err)
	}
	h := hash160(k.PublicKey().Key)
	conv, err := bech32.ConvertBits(h, 8, 5, true)
	if err != nil {
		return "", WrapError(KindUnsupportedAssetChn, "bech32 convert", err)
	}
	hrp := "cosmos"
	if chainID == "cosmos:osmosis-1" {
		hrp = "osmo"
	}
	enc, err := bech32.Encode(hrp, conv)
	if err != nil {
		return "", WrapError(KindUnsupportedAssetChn, "bech32 encode", err)
	}
	return enc, nil
}

// deriveSolana derives an ed25519 keypair whose 32-byte seed is the
// SHA-256 of the BIP32 master key, its chain code, and the big-endian
// account and index, and returns the base58-encoded public key as the
// address. This is not a SLIP-0010 m/44'/501'/... path derivation.
func (d *Derivation) deriveSolana(account, index uint32) (string, error) {
	seedMaterial := append(append([]byte{}, d.masterKey.Key...), d.masterKey.ChainCode...)
	seed := deriveSeed32(seedMaterial, account, index)
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	return solana.PublicKeyFromBytes(pub).String(), nil
}

func deriveSeed32(material []byte, account, index uint32) []byte {
	buf := append(append([]byte{}, material...), byte(account>>24), byte(account>>16), byte(account>>8), byte(account), byte(index>>24), byte(index>>16), byte(index>>8), byte(index))
	sum := sha256.Sum256(buf)
	return sum[:]
}

func hash160(pub []byte) []byte {
	sha := sha256.Sum256(pub)
	r := ripemd160.New()
	r.Write(sha[:])
	return r.Sum(nil)
}

// chainPrefix maps a chainId to its payment-URI scheme prefix (§4.9).
func chainPrefix(chainID string) (string, bool) {
	switch chainID {
	case "eip155:1", "eip155:43114", "eip155:56", "eip155:137", "eip155:10", "eip155:42161", "eip155:8453", "eip155:100":
		return "ethereum", true
	case "bip122:000000000019d6689c085ae165831e93":
		return "bitcoin", true
	case "bip122:12a765e31ffd4059bada1e25190f6e98":
		return "litecoin", true
	case "bip122:1a2a2cbbdbeaa0c3e87f2d2dba13f9a7":
		return "dogecoin", true
	case "bip122:1a91e3dace36e2be3bf030a65679fe82":
		return "bitcoincash", true
	case "cosmos:cosmoshub-4":
		return "cosmos", true
	case "cosmos:osmosis-1":
		return "osmosis", true
	case "solana:101":
		return "solana", true
	default:
		return "", false
	}
}
