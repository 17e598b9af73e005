package generator

import "math"

// seedToPtrInt32 は domain の *int64 を SDK 用の *int32 に変換するのだ。
// int32 に収まらない値は下位ビットで折り返すのだ。
func seedToPtrInt32(s *int64) *int32 {
	if s == nil {
		return nil
	}
	v := int32(*s & math.MaxUint32)
	return &v
}

// dereferenceSeed は *int64 を安全に int64 に変換するのだ。
func dereferenceSeed(s *int64) int64 {
	if s == nil {
		return 0
	}
	return *s
}
