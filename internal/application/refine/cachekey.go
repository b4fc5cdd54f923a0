package refine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"prompt-refinery-api/internal/domain/refine"
)

// NoAssetsDigest 空资产集合的固定摘要
const NoAssetsDigest = "no_assets"

// rawPromptKeyPrefixLen 参与缓存键的原始 prompt 前缀长度
const rawPromptKeyPrefixLen = 512

// dataURIDigestPrefixLen 参与资产摘要的 dataUri 前缀长度
const dataURIDigestPrefixLen = 64

// simpleHash djb2 非加密滚动哈希，跨进程稳定，仅用于缓存分区
func simpleHash(input string) string {
	var hash uint32 = 5381
	for _, r := range input {
		hash = (hash * 33) ^ uint32(r)
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// BuildAssetsDigest 计算资产集合摘要
// 先按 name 排序再拼接，资产的列表顺序不影响摘要，内容变化才影响。
func BuildAssetsDigest(assets []refine.AssetRef) string {
	if len(assets) == 0 {
		return NoAssetsDigest
	}
	sorted := make([]refine.AssetRef, len(assets))
	copy(sorted, assets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	parts := make([]string, 0, len(sorted))
	for _, a := range sorted {
		dataLen := len(a.DataURI)
		dataStart := a.DataURI
		if len(dataStart) > dataURIDigestPrefixLen {
			dataStart = dataStart[:dataURIDigestPrefixLen]
		}
		parts = append(parts, strings.Join([]string{
			a.Name,
			a.MimeType,
			strconv.FormatInt(a.SizeBytes, 10),
			string(a.Source),
			a.URL,
			strconv.Itoa(dataLen),
			dataStart,
		}, "|"))
	}
	return simpleHash(strings.Join(parts, "||"))
}

// CacheKeyParams 缓存键的输入要素
type CacheKeyParams struct {
	ModelName           string
	Family              refine.Family
	InstructionPresetID string
	RawPrompt           string
	HasImages           bool
	AssetsDigest        string
}

// BuildCacheKey 计算规范化缓存键，形如 refine:<hex>
// 原始 prompt 只取固定前缀参与哈希，键不要求内容完整，只要求实践上不碰撞。
func BuildCacheKey(p CacheKeyParams) string {
	rawPreview := p.RawPrompt
	if len(rawPreview) > rawPromptKeyPrefixLen {
		rawPreview = rawPreview[:rawPromptKeyPrefixLen]
	}
	img := "img0"
	if p.HasImages {
		img = "img1"
	}
	body := strings.Join([]string{
		p.ModelName,
		string(p.Family),
		p.InstructionPresetID,
		img,
		p.AssetsDigest,
		rawPreview,
	}, "#")
	return fmt.Sprintf("refine:%s", simpleHash(body))
}
