package battery

import (
	"github.com/nodebeacon/beacon/pkg/types"
)

// Built-in check names.
const (
	CheckVersion          = "get_version"
	CheckGlobalProperties = "dynamic_global_properties"
	CheckFeedHistory      = "feed_history"
	CheckAccounts         = "get_accounts"
	CheckPost             = "get_post"
	CheckRankedCreated    = "get_ranked_by_created"
	CheckRankedTrending   = "get_ranked_by_trending"
	CheckPostsByBlog      = "get_account_posts_by_blog"
	CheckPostsByFeed      = "get_account_posts_by_feed"
	CheckPostsByReplies   = "get_account_posts_by_replies"
	CheckCommunityPinned  = "get_community_pinned_and_muted"
	CheckAccountHistory   = "get_account_history"
	CheckCustomJSON       = "custom_json"
	CheckTransfer         = "transfer"
)

// Payloads of the write checks.
const (
	CustomJSONID   = "beacon_custom_json"
	TransferAmount = "0.001 HIVE"
)

const (
	// Low word of the operation filter selecting account_witness_vote (op
	// 12), sent as a decimal string; the high word is sent as null.
	witnessVoteFilterLow = "4096"

	accountHistoryLimit    = 500
	accountHistoryStartAll = -1
)

// Default returns the standard Hive battery. Weights sum to 255; the two
// write checks run last.
func Default(s Settings) (*Battery, error) {
	chainID, err := Lookup(ValidateChainID, s)
	if err != nil {
		return nil, err
	}
	fresh, err := Lookup(ValidateFreshRanked, s)
	if err != nil {
		return nil, err
	}
	pinned, err := Lookup(ValidatePinnedCommunity, s)
	if err != nil {
		return nil, err
	}

	return New([]TestSpec{
		{
			Name:          CheckVersion,
			Description:   "Node reports the expected chain id",
			Kind:          types.KindRead,
			Method:        "database_api.get_version",
			Params:        map[string]any{},
			Weight:        50,
			ValidatorName: ValidateChainID,
			Validator:     chainID,
		},
		{
			Name:          CheckGlobalProperties,
			Description:   "Dynamic global properties include head block and HBD interest rate",
			Kind:          types.KindRead,
			Method:        "database_api.get_dynamic_global_properties",
			Params:        map[string]any{},
			Weight:        15,
			ValidatorName: ValidateGlobalProperties,
			Validator:     validateGlobalProperties,
		},
		{
			Name:        CheckFeedHistory,
			Description: "Price feed history is served",
			Kind:        types.KindRead,
			Method:      "database_api.get_feed_history",
			Params:      map[string]any{},
			Weight:      15,
		},
		{
			Name:          CheckAccounts,
			Description:   "Account lookup through the call API returns exactly one account",
			Kind:          types.KindRead,
			Method:        "call",
			Params:        []any{"database_api", "get_accounts", []any{[]any{"hiveio"}}},
			Weight:        15,
			ValidatorName: ValidateSingleAccount,
			Validator:     arrayOfLen(1),
		},
		{
			Name:        CheckPost,
			Description: "A well-known post is returned with its replies",
			Kind:        types.KindRead,
			Method:      "bridge.get_post",
			Params: map[string]any{
				"author":   "hiveio",
				"permlink": "hive-first-community-hardfork-complete",
				"observer": "hiveio",
			},
			Weight:        15,
			ValidatorName: ValidatePostWithReplies,
			Validator:     validatePostWithReplies,
		},
		{
			Name:          CheckRankedCreated,
			Description:   "Newest posts are complete and recent",
			Kind:          types.KindRead,
			Method:        "bridge.get_ranked_posts",
			Params:        rankedParams("", "created"),
			Weight:        25,
			ValidatorName: ValidateFreshRanked,
			Validator:     fresh,
		},
		{
			Name:        CheckRankedTrending,
			Description: "Trending posts are served",
			Kind:        types.KindRead,
			Method:      "bridge.get_ranked_posts",
			Params:      rankedParams("", "trending"),
			Weight:      15,
		},
		{
			Name:        CheckPostsByBlog,
			Description: "Account blog is served",
			Kind:        types.KindRead,
			Method:      "bridge.get_account_posts",
			Params:      accountPostsParams("blog"),
			Weight:      15,
		},
		{
			Name:        CheckPostsByFeed,
			Description: "Account feed is served",
			Kind:        types.KindRead,
			Method:      "bridge.get_account_posts",
			Params:      accountPostsParams("feed"),
			Weight:      15,
		},
		{
			Name:        CheckPostsByReplies,
			Description: "Account replies are served",
			Kind:        types.KindRead,
			Method:      "bridge.get_account_posts",
			Params:      accountPostsParams("replies"),
			Weight:      15,
		},
		{
			Name:          CheckCommunityPinned,
			Description:   "Community feed leads with its pinned post",
			Kind:          types.KindRead,
			Method:        "bridge.get_ranked_posts",
			Params:        rankedParams(PlaceholderCommunity, "created"),
			Weight:        15,
			ValidatorName: ValidatePinnedCommunity,
			Validator:     pinned,
		},
		{
			Name:        CheckAccountHistory,
			Description: "Filtered account history returns no witness votes",
			Kind:        types.KindRead,
			Method:      "call",
			Params: []any{"database_api", "get_account_history", []any{
				PlaceholderHistoryAccount,
				accountHistoryStartAll,
				accountHistoryLimit,
				witnessVoteFilterLow,
				nil,
			}},
			Weight:        15,
			ValidatorName: ValidateEmptyArray,
			Validator:     arrayOfLen(0),
		},
		{
			Name:        CheckCustomJSON,
			Description: "Broadcast a custom_json signed with the posting key",
			Kind:        types.KindWrite,
			Method:      "custom_json",
			Params: map[string]any{
				"id":                     CustomJSONID,
				"json":                   `{"ping":"pong"}`,
				"required_auths":         []any{},
				"required_posting_auths": []any{PlaceholderBeacon},
			},
			Weight:     15,
			Credential: CredentialPosting,
		},
		{
			Name:        CheckTransfer,
			Description: "Broadcast a tiny self-transfer signed with the active key",
			Kind:        types.KindWrite,
			Method:      "transfer",
			Params: map[string]any{
				"from":   PlaceholderBeacon,
				"to":     PlaceholderBeacon,
				"amount": TransferAmount,
				"memo":   PlaceholderMemo,
			},
			Weight:     15,
			Credential: CredentialActive,
		},
	})
}

func rankedParams(tag, sort string) map[string]any {
	return map[string]any{"tag": tag, "sort": sort, "limit": rankedLimit}
}

func accountPostsParams(sort string) map[string]any {
	return map[string]any{"account": PlaceholderAccount, "sort": sort, "limit": rankedLimit}
}
