package apperr

// Challenge errors.
var (
	ErrPartnerMissing      = NotFound("PARTNER_MISSING", "partner has not been matched yet")
	ErrChallengeNotFound   = NotFound("CHALLENGE_NOT_FOUND", "challenge does not exist")
	ErrChallengeNotActive  = BadRequest("CHALLENGE_NOT_ACTIVE", "challenge is not in progress")
	ErrChallengeApproved   = Conflict("CHALLENGE_ALREADY_APPROVED", "challenge is already approved")
	ErrChallengeFinished   = Conflict("CHALLENGE_ALREADY_FINISHED", "challenge is already finished")
	ErrChallengeCreate     = BadRequest("CHALLENGE_CREATE_FAILED", "failed to create challenge")
	ErrExclusiveDateFields = BadRequest("EXCLUSIVE_DATE_FIELDS", "set either startDate or endDate, not both")
	ErrInvalidFlower       = BadRequest("INVALID_FLOWER", "unknown flower type")
	ErrNotYourChallenge    = Forbidden("NOT_YOUR_CHALLENGE", "challenge does not belong to you")
)

// Commit errors.
var (
	ErrCommitNotFound   = NotFound("COMMIT_NOT_FOUND", "commit does not exist")
	ErrAlreadyCommitted = BadRequest("ALREADY_COMMITTED_TODAY", "already committed today")
	ErrAlreadyPraised   = Conflict("ALREADY_PRAISED", "partner comment is already set")
	ErrNotPartnerCommit = Forbidden("NOT_PARTNER_COMMIT", "commit does not belong to your partner")
	ErrNotOwnCommit     = Forbidden("NOT_OWN_COMMIT", "commit does not belong to you")
)

// User errors.
var (
	ErrUserNotFound       = NotFound("USER_NOT_FOUND", "user does not exist")
	ErrDeviceTokenMissing = NotFound("DEVICE_TOKEN_MISSING", "device token is not registered")
	ErrAlreadyMatched     = Conflict("ALREADY_MATCHED", "user already has a partner")
	ErrSelfMatch          = Conflict("SELF_MATCH", "cannot match with yourself")
	ErrPartnerNotReady    = Conflict("PARTNER_NOT_READY", "partner has not set a nickname yet")
	ErrPartnerTaken       = Conflict("PARTNER_TAKEN", "partner is already matched with someone else")
	ErrNicknameRequired   = BadRequest("NICKNAME_REQUIRED", "nickname is required")
	ErrPartnerNotMatched  = BadRequest("PARTNER_NOT_MATCHED", "partner matching is not complete")
	ErrSocialIDDuplicated = Conflict("SOCIAL_ID_DUPLICATED", "account already exists for this social id")
	ErrStingLimitExceeded = BadRequest("STING_LIMIT_EXCEEDED", "too many stings, try again later")
	ErrNoChallengeToSting = BadRequest("NO_CHALLENGE_TO_STING", "no challenge to attach the sting to")
)
