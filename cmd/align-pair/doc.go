/*
align-pair streams a SAM or BAM file of paired-end alignments, joins
mates into pairs, and reports a pairing summary.

By default mates are expected in adjacent stream positions (input
sorted by read name). With -mode=buffered the input may be unsorted;
the earlier mate of each read is then held in a bounded in-memory
buffer, and the run aborts if more than -max-buffer reads are pending
at once, rather than growing without bound.

Sample usage:

	align-pair \
	    -mode buffered \
	    -max-buffer 1000000 \
	    -summary pairing.tsv \
	    -out paired.sam \
	    input.bam
*/
package main
