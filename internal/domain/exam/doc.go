// Package exam models an exam as a tree. Sections are containers that hold
// questions and other sections in insertion order; questions are leaves
// bound to the grader that decides whether a submitted answer matches the
// key. Trees are assembled with Builder and are read-only afterwards.
package exam
