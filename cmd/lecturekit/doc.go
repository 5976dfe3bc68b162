// Command lecturekit watches lecture slides, writes study questions and
// draws keyword mind maps.
//
// Usage:
//
//	lecturekit slides [--video lecture.mp4]
//	lecturekit questions --file notes.txt
//	lecturekit mindmap --file notes.txt --topic "Free Fall"
//	lecturekit search "conservation of energy"
//	lecturekit db init
//	lecturekit config init
package main
