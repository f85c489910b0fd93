package utils

// SafeSlice 取前 max 个元素，不足时原样返回
func SafeSlice[T any](slice []T, max int) []T {
	if len(slice) < max {
		return slice
	}
	return slice[:max]
}
