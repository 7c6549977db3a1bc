package luckyboxconst

// Distribution modes.
const (
	ModeRandom = 1
	ModeEven   = 2
)

// Authorization schemes chosen at packing time, immutable afterwards.
const (
	AuthAllowlist = 1
	AuthMerkle    = 2
	AuthGuardian  = 3
)

const (
	// MaxAllowlistEntries bounds per-transaction gas cost of pack.
	MaxAllowlistEntries = 512
	// AddressPrefixLen is the length of a consumable allowlist entry.
	AddressPrefixLen = 8
	// MerkleNodeLen is the length of a single Merkle tree node and of the
	// stored root.
	MerkleNodeLen = 8

	// NewAccountUnpackFee is a flat per-unpack gas estimate for a
	// recipient account with no prior activity. It is also the per-recipient
	// amount prepaid by the packer.
	NewAccountUnpackFee = 0_0100_0000
	// ActiveUnpackFee is a flat per-unpack gas estimate for an already
	// active recipient account.
	ActiveUnpackFee = 0_0010_0000

	// SignaturePrefix is the domain separator of guardian signatures. The
	// signed message is SignaturePrefix || boxId || unpacker.
	SignaturePrefix = "luckybox.unpack:"
)

const (
	// NotFoundError is returned if box is missing.
	NotFoundError = "box does not exist"
	// InvalidAmountError is returned on pack with a non-positive amount.
	InvalidAmountError = "invalid amount"
	// InvalidCountError is returned on pack with a non-positive recipient
	// count or a count exceeding the amount.
	InvalidCountError = "invalid recipient count"
	// InvalidModeError is returned on pack with an unknown distribution mode.
	InvalidModeError = "invalid distribution mode"
	// ExpiredError is returned on pack with a past expiry and on unpack of
	// an expired box.
	ExpiredError = "box expired"
	// AlreadyCompletedError is returned on unpack of a settled box.
	AlreadyCompletedError = "box already completed"
	// TooManyEntriesError is returned on pack with an allowlist larger than
	// MaxAllowlistEntries.
	TooManyEntriesError = "too many allowlist entries"
	// InvalidUnpackerError is returned when the unpacker is not in the
	// allowlist or has already unpacked.
	InvalidUnpackerError = "invalid unpacker"
	// InvalidProofError is returned when the supplied Merkle path does not
	// reproduce the stored root.
	InvalidProofError = "invalid merkle proof"
	// InvalidSignatureError is returned when the guardian signature does
	// not verify.
	InvalidSignatureError = "invalid guardian signature"
	// MethodMismatchError is returned on calling an unpack entry point that
	// does not match the box authorization scheme.
	MethodMismatchError = "wrong unpack method for this box"
	// NotExpiredError is returned on refund of a box before its expiry.
	NotExpiredError = "box not yet expired"
	// NothingToRefundError is returned on refund of an already settled box.
	NothingToRefundError = "nothing to refund"
)
