// Package histogram bins point clouds into square 2-D histograms.
//
// [Discretise] partitions the bounding box of a point set into m×m cells of
// equal width per axis and counts the points falling in each cell. Bins are
// left-closed and right-open, except the last bin on each axis which is
// closed so the maximum coordinate is counted:
//
//	[e0, e1) [e1, e2) ... [e(m-1), em]
//
// The resolution m must satisfy num/100 <= m < √num, where num is the number
// of points and num/100 uses integer division. The upper bound is compared
// exactly (m² < num), so for 2500 points m = 50 is rejected and m = 49 is the
// finest valid grid.
//
// An axis whose points all share one coordinate has no extent. It is widened
// to [v-0.5, v+0.5], which keeps the bin width positive and puts every point
// into the same bin.
package histogram
