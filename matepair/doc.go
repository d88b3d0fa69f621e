// Package matepair joins the first-pass and second-pass records of
// paired-end alignments into pairs.
//
// Two engines are provided. Pairer assumes the two mates of a read
// appear in adjacent stream positions (guaranteed by name-sorted
// input) and runs in O(group size) memory. BufferedPairer drops the
// adjacency requirement and holds the earlier-arriving mate of each
// read in a bounded buffer; rather than growing without bound on a
// large unsorted file, it fails with ErrBufferOverflow the moment the
// buffer would exceed its configured capacity.
//
// Both engines emit every input record exactly once: records whose
// mate never arrives come out as singleton pairs with the other slot
// nil, counted by Unmatched.
package matepair
