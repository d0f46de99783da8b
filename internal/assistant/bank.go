package assistant

// quizBank is the static question bank: topic -> difficulty -> pool.
// Content is curated, not generated; Generate only selects from it.
var quizBank = map[string]map[string][]Question{
	"python": {
		DifficultyEasy: {
			{
				Text:        "What built-in function returns the number of items in a list?",
				Options:     []string{"count()", "len()", "size()", "length()"},
				Correct:     1,
				Explanation: "len() works on any sized container: lists, strings, dicts, sets.",
			},
			{
				Text:        "Which keyword defines a function in Python?",
				Options:     []string{"func", "define", "def", "lambda only"},
				Correct:     2,
				Explanation: "def introduces a named function; lambda only creates anonymous ones.",
			},
			{
				Text:        "What is the result of 3 // 2?",
				Options:     []string{"1.5", "1", "2", "error"},
				Correct:     1,
				Explanation: "// is floor division, so the fractional part is discarded.",
			},
		},
		DifficultyMedium: {
			{
				Text:        "What does a list comprehension [x*x for x in range(3)] evaluate to?",
				Options:     []string{"[0, 1, 4]", "[1, 4, 9]", "[0, 1, 2]", "[1, 2, 3]"},
				Correct:     0,
				Explanation: "range(3) yields 0, 1, 2 and each is squared.",
			},
			{
				Text:        "Which statement about dict keys is true?",
				Options:     []string{"They may be any object", "They must be hashable", "They must be strings", "They must be immutable builtins"},
				Correct:     1,
				Explanation: "Any hashable object can be a key, including tuples of hashables.",
			},
			{
				Text:        "What does the 'with' statement guarantee?",
				Options:     []string{"Faster I/O", "The context manager's exit runs", "No exceptions are raised", "Lazy evaluation"},
				Correct:     1,
				Explanation: "__exit__ runs even when the body raises, which is why files get closed.",
			},
		},
		DifficultyHard: {
			{
				Text:        "Why is a default mutable argument (def f(x, acc=[])) a bug source?",
				Options:     []string{"It raises TypeError", "The list is shared across calls", "It shadows globals", "It disables keyword arguments"},
				Correct:     1,
				Explanation: "Defaults are evaluated once at definition time, so every call mutates the same list.",
			},
			{
				Text:        "What does the GIL serialize?",
				Options:     []string{"Disk access", "Bytecode execution across threads", "Network sockets", "Garbage collection only"},
				Correct:     1,
				Explanation: "Only one thread executes Python bytecode at a time; C extensions can release it.",
			},
		},
	},
	"machine learning": {
		DifficultyEasy: {
			{
				Text:        "Supervised learning requires which of the following?",
				Options:     []string{"Labeled examples", "A neural network", "A GPU", "Unlabeled clusters"},
				Correct:     0,
				Explanation: "The defining property is training on input/label pairs.",
			},
			{
				Text:        "Which task is a classification problem?",
				Options:     []string{"Predicting house prices", "Detecting spam emails", "Estimating temperature", "Forecasting demand volume"},
				Correct:     1,
				Explanation: "Spam detection assigns a discrete class, the others are regression.",
			},
			{
				Text:        "What is a training/test split for?",
				Options:     []string{"Speeding up training", "Measuring generalization", "Reducing dataset size", "Balancing classes"},
				Correct:     1,
				Explanation: "Held-out data estimates performance on examples the model never saw.",
			},
		},
		DifficultyMedium: {
			{
				Text:        "High training accuracy but poor test accuracy indicates what?",
				Options:     []string{"Underfitting", "Overfitting", "Label noise", "Data leakage"},
				Correct:     1,
				Explanation: "The model memorized the training set instead of learning the signal.",
			},
			{
				Text:        "What does L2 regularization do?",
				Options:     []string{"Removes features", "Penalizes large weights", "Normalizes inputs", "Increases learning rate"},
				Correct:     1,
				Explanation: "The squared-weight penalty shrinks weights toward zero without zeroing them.",
			},
			{
				Text:        "k-fold cross-validation primarily reduces what?",
				Options:     []string{"Training time", "Variance of the performance estimate", "Model bias", "Feature count"},
				Correct:     1,
				Explanation: "Averaging over k held-out folds stabilizes the estimate versus a single split.",
			},
		},
		DifficultyHard: {
			{
				Text:        "Why can accuracy be misleading on imbalanced data?",
				Options:     []string{"It ignores the majority class", "Predicting the majority class scores high", "It requires probabilities", "It penalizes false negatives twice"},
				Correct:     1,
				Explanation: "With 99/1 imbalance a constant classifier scores 99% while learning nothing.",
			},
			{
				Text:        "Gradient boosting fits each new tree to what?",
				Options:     []string{"The raw labels", "The residual errors of the ensemble", "A random subsample only", "The previous tree's leaves"},
				Correct:     1,
				Explanation: "Each stage moves the ensemble along the negative gradient of the loss.",
			},
		},
	},
	"deep learning": {
		DifficultyEasy: {
			{
				Text:        "What is an activation function for?",
				Options:     []string{"Weight initialization", "Introducing non-linearity", "Data augmentation", "Batching inputs"},
				Correct:     1,
				Explanation: "Without non-linearities a stack of layers collapses to one linear map.",
			},
			{
				Text:        "Which layer type dominates image models?",
				Options:     []string{"Recurrent", "Convolutional", "Embedding", "Pooling only"},
				Correct:     1,
				Explanation: "Convolutions share weights across spatial positions, matching image structure.",
			},
		},
		DifficultyMedium: {
			{
				Text:        "What problem does dropout address?",
				Options:     []string{"Vanishing gradients", "Overfitting", "Slow convergence", "Exploding activations"},
				Correct:     1,
				Explanation: "Randomly disabling units prevents co-adaptation, acting as regularization.",
			},
			{
				Text:        "Backpropagation computes what?",
				Options:     []string{"The loss value", "Gradients of the loss w.r.t. parameters", "Optimal weights directly", "Layer outputs"},
				Correct:     1,
				Explanation: "It is reverse-mode automatic differentiation through the network.",
			},
		},
		DifficultyHard: {
			{
				Text:        "Residual connections primarily help with what?",
				Options:     []string{"Memory usage", "Gradient flow in deep stacks", "Parameter count", "Input normalization"},
				Correct:     1,
				Explanation: "The identity path gives gradients a direct route, enabling very deep networks.",
			},
			{
				Text:        "Why does batch normalization speed up training?",
				Options:     []string{"It reduces parameters", "It stabilizes layer input distributions", "It skips small gradients", "It caches activations"},
				Correct:     1,
				Explanation: "Normalized activations permit higher learning rates and smoother optimization.",
			},
		},
	},
	"nlp": {
		DifficultyEasy: {
			{
				Text:        "What is tokenization?",
				Options:     []string{"Removing stop words", "Splitting text into units", "Translating text", "Counting words"},
				Correct:     1,
				Explanation: "Tokens (words, subwords, characters) are the model's input units.",
			},
			{
				Text:        "A word embedding maps a word to what?",
				Options:     []string{"A dictionary entry", "A dense vector", "A part-of-speech tag", "A document id"},
				Correct:     1,
				Explanation: "Dense vectors place semantically similar words near each other.",
			},
		},
		DifficultyMedium: {
			{
				Text:        "TF-IDF downweights terms that are what?",
				Options:     []string{"Rare in the corpus", "Frequent across many documents", "Long", "Capitalized"},
				Correct:     1,
				Explanation: "Terms common to most documents carry little discriminative signal.",
			},
			{
				Text:        "What does attention compute over a sequence?",
				Options:     []string{"A fixed window average", "Weighted relevance between positions", "Character n-grams", "Parse trees"},
				Correct:     1,
				Explanation: "Each position attends to the others with learned relevance weights.",
			},
		},
		DifficultyHard: {
			{
				Text:        "Subword tokenization (BPE) mainly solves what?",
				Options:     []string{"Punctuation handling", "Out-of-vocabulary words", "Sentence splitting", "Case folding"},
				Correct:     1,
				Explanation: "Unseen words decompose into known subword units instead of an UNK token.",
			},
			{
				Text:        "In retrieval-augmented generation, retrieval happens when?",
				Options:     []string{"During pre-training only", "At query time, before generation", "After generation", "During tokenizer training"},
				Correct:     1,
				Explanation: "Retrieved passages are injected into the prompt so answers cite fresh context.",
			},
		},
	},
	"computer vision": {
		DifficultyEasy: {
			{
				Text:        "A grayscale image is typically represented as what?",
				Options:     []string{"A 2D array of intensities", "A list of edges", "A graph", "A set of histograms"},
				Correct:     0,
				Explanation: "Each cell holds one intensity value; color adds channel dimensions.",
			},
			{
				Text:        "What does image classification output?",
				Options:     []string{"Bounding boxes", "A class label", "A segmentation mask", "Keypoints"},
				Correct:     1,
				Explanation: "One label per image; detection and segmentation are separate tasks.",
			},
		},
		DifficultyMedium: {
			{
				Text:        "What does max pooling do?",
				Options:     []string{"Increases resolution", "Downsamples keeping strongest activations", "Normalizes channels", "Rotates features"},
				Correct:     1,
				Explanation: "It shrinks spatial size while preserving the most salient responses.",
			},
			{
				Text:        "Data augmentation (flips, crops) improves what?",
				Options:     []string{"Label quality", "Generalization", "Inference speed", "Dataset storage"},
				Correct:     1,
				Explanation: "Synthetic variation teaches invariances the raw dataset underrepresents.",
			},
		},
		DifficultyHard: {
			{
				Text:        "IoU (intersection over union) measures what?",
				Options:     []string{"Classification confidence", "Overlap between predicted and true boxes", "Pixel brightness", "Model size"},
				Correct:     1,
				Explanation: "Detection benchmarks count a prediction correct above an IoU threshold.",
			},
			{
				Text:        "Transfer learning in vision usually means what?",
				Options:     []string{"Training from scratch on more data", "Fine-tuning a model pre-trained on a large corpus", "Ensembling models", "Quantizing weights"},
				Correct:     1,
				Explanation: "Features learned on large datasets transfer to small downstream tasks.",
			},
		},
	},
}
